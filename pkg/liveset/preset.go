package liveset

import (
	"encoding/hex"
	"fmt"
	"strings"

	"howett.net/plist"
)

// PresetBlob is a decoded AU preset buffer.
type PresetBlob struct {
	Data []byte
	Name *string
}

// DecodePreset decodes a hex dump that may be broken up by whitespace or
// other formatting. Every character that is not a hex digit is dropped
// before decoding.
func DecodePreset(hexText string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(hexText))
	for _, r := range strings.ToLower(hexText) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
			b.WriteRune(r)
		}
	}
	data, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("decode preset buffer: %w", err)
	}
	return data, nil
}

// ParsePresetBlob decodes a Buffer element's text and recovers the preset
// name from the property list inside it. Only a hex failure is an error; a
// corrupt property list or one without a string "name" key yields a blob
// with a nil Name.
func ParsePresetBlob(text string) (*PresetBlob, error) {
	data, err := DecodePreset(text)
	if err != nil {
		return nil, err
	}
	return &PresetBlob{Data: data, Name: presetName(data)}, nil
}

func presetName(data []byte) *string {
	var dict map[string]interface{}
	if _, err := plist.Unmarshal(data, &dict); err != nil {
		return nil
	}
	name, ok := dict["name"].(string)
	if !ok {
		return nil
	}
	return &name
}
