package liveset

import (
	"strings"

	"github.com/beevik/etree"
)

const (
	userNamePath   = "UserName"
	auNamePath     = "PluginDesc/AuPluginInfo/Name"
	auBufferPath   = "PluginDesc/AuPluginInfo/Preset/AuPreset/Buffer"
	vstNamePath    = "PluginDesc/VstPluginInfo/PlugName"
	presetNameJoin = ": "
)

// ExtractDevice builds a Device from a device chain element. It never
// fails: a device with nothing recognizable gets an empty PresetName.
//
// The preset name is the first non-empty of:
//  1. the user-assigned name,
//  2. an Audio Unit plugin name, suffixed with the embedded preset's name,
//  3. a VST plugin name.
func ExtractDevice(e *etree.Element) Device {
	d := Device{Kind: e.Tag}

	if name, ok := Value(e, vstNamePath); ok {
		d.PluginName = &name
	}
	hasAU := e.FindElement(auNamePath) != nil
	if hasAU {
		d.PluginName = optString(e, auNamePath)
		d.PluginPreset = auPresetName(e)
	}

	d.PresetName = firstNonEmpty(
		func() string { s, _ := Value(e, userNamePath); return s },
		func() string {
			if !hasAU {
				return ""
			}
			var parts []string
			if d.PluginName != nil {
				parts = append(parts, *d.PluginName)
			}
			if d.PluginPreset != nil {
				parts = append(parts, *d.PluginPreset)
			}
			return strings.Join(parts, presetNameJoin)
		},
		func() string { s, _ := Value(e, vstNamePath); return s },
	)
	d.Name = d.Kind + presetNameJoin + d.PresetName
	return d
}

// auPresetName recovers the preset name from an AU preset buffer, or nil
// if there is no buffer or it cannot be decoded.
func auPresetName(e *etree.Element) *string {
	buf := e.FindElement(auBufferPath)
	if buf == nil {
		return nil
	}
	blob, err := ParsePresetBlob(buf.Text())
	if err != nil {
		return nil
	}
	return blob.Name
}

func firstNonEmpty(candidates ...func() string) string {
	for _, c := range candidates {
		if s := c(); s != "" {
			return s
		}
	}
	return ""
}
