package liveset

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"howett.net/plist"
)

// hexDump formats data the way Live writes Buffer text: upper-case hex
// broken into indented lines.
func hexDump(data []byte) string {
	h := strings.ToUpper(hex.EncodeToString(data))
	var b strings.Builder
	for len(h) > 0 {
		n := 64
		if n > len(h) {
			n = len(h)
		}
		b.WriteString("\n\t\t\t")
		b.WriteString(h[:n])
		h = h[n:]
	}
	b.WriteString("\n\t\t")
	return b.String()
}

func TestDecodePreset(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"plain", "48656c6c6f", []byte("Hello"), false},
		{"upper case", "48656C6C6F", []byte("Hello"), false},
		{"whitespace", "\n\t48 65\n6c6c\t6f  ", []byte("Hello"), false},
		{"other characters", "48-65-6c-6c-6f", []byte("Hello"), false},
		{"empty", "", []byte{}, false},
		{"odd digits", "486", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePreset(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodePreset() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("DecodePreset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePresetBlobRoundTrip(t *testing.T) {
	for _, format := range []int{plist.XMLFormat, plist.BinaryFormat} {
		data, err := plist.Marshal(map[string]interface{}{
			"name":    "6ties Mute Bass",
			"version": 0,
		}, format)
		if err != nil {
			t.Fatalf("plist.Marshal() error = %v", err)
		}

		blob, err := ParsePresetBlob(hexDump(data))
		if err != nil {
			t.Fatalf("ParsePresetBlob() error = %v", err)
		}
		if !bytes.Equal(blob.Data, data) {
			t.Error("ParsePresetBlob() did not recover the original bytes")
		}
		if blob.Name == nil || *blob.Name != "6ties Mute Bass" {
			t.Errorf("ParsePresetBlob() name = %v, want %q", blob.Name, "6ties Mute Bass")
		}
	}
}

func TestParsePresetBlobWithoutName(t *testing.T) {
	noName, err := plist.Marshal(map[string]interface{}{"version": 1}, plist.XMLFormat)
	if err != nil {
		t.Fatalf("plist.Marshal() error = %v", err)
	}
	numericName, err := plist.Marshal(map[string]interface{}{"name": 7}, plist.XMLFormat)
	if err != nil {
		t.Fatalf("plist.Marshal() error = %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"missing name key", noName},
		{"non-string name", numericName},
		{"not a plist", []byte{0x00, 0x01, 0x02, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := ParsePresetBlob(hexDump(tt.data))
			if err != nil {
				t.Fatalf("ParsePresetBlob() error = %v, want nil", err)
			}
			if blob.Name != nil {
				t.Errorf("ParsePresetBlob() name = %q, want nil", *blob.Name)
			}
		})
	}
}

func TestParsePresetBlobBadHex(t *testing.T) {
	if _, err := ParsePresetBlob("ABC"); err == nil {
		t.Error("ParsePresetBlob() should fail on an odd number of hex digits")
	}
}
