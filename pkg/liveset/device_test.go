package liveset

import (
	"fmt"
	"testing"

	"howett.net/plist"
)

func auDevice(t *testing.T, userName, pluginName, buffer string) string {
	t.Helper()
	return fmt.Sprintf(`<AuPluginDevice>
	<UserName Value=%q />
	<PluginDesc>
		<AuPluginInfo>
			<Name Value=%q />
			<Preset><AuPreset><Buffer>%s</Buffer></AuPreset></Preset>
		</AuPluginInfo>
	</PluginDesc>
</AuPluginDevice>`, userName, pluginName, buffer)
}

func presetBuffer(t *testing.T, name string) string {
	t.Helper()
	data, err := plist.Marshal(map[string]interface{}{"name": name}, plist.XMLFormat)
	if err != nil {
		t.Fatalf("plist.Marshal() error = %v", err)
	}
	return hexDump(data)
}

func TestExtractDeviceNameFallback(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "user name wins",
			xml:  auDevice(t, "My Bass", "FM8", presetBuffer(t, "6ties Mute Bass")),
			want: "My Bass",
		},
		{
			name: "au plugin with preset",
			xml:  auDevice(t, "", "FM8", presetBuffer(t, "6ties Mute Bass")),
			want: "FM8: 6ties Mute Bass",
		},
		{
			name: "au plugin with undecodable preset",
			xml:  auDevice(t, "", "Combo", "ABC"),
			want: "Combo",
		},
		{
			name: "au plugin with corrupt plist",
			xml:  auDevice(t, "", "Combo", "DEADBEEF"),
			want: "Combo",
		},
		{
			name: "vst plugin",
			xml: `<PluginDevice>
				<UserName Value="" />
				<PluginDesc><VstPluginInfo><PlugName Value="Massive" /></VstPluginInfo></PluginDesc>
			</PluginDevice>`,
			want: "Massive",
		},
		{
			name: "nothing",
			xml:  `<Compressor2><UserName Value="" /></Compressor2>`,
			want: "",
		},
		{
			name: "no children",
			xml:  `<Eq8 />`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExtractDevice(element(t, tt.xml))
			if d.PresetName != tt.want {
				t.Errorf("PresetName = %q, want %q", d.PresetName, tt.want)
			}
			if want := d.Kind + ": " + tt.want; d.Name != want {
				t.Errorf("Name = %q, want %q", d.Name, want)
			}
		})
	}
}

func TestExtractDeviceKindAndPlugin(t *testing.T) {
	d := ExtractDevice(element(t, auDevice(t, "", "FM8", presetBuffer(t, "Init"))))

	if d.Kind != "AuPluginDevice" {
		t.Errorf("Kind = %q, want %q", d.Kind, "AuPluginDevice")
	}
	if d.PluginName == nil || *d.PluginName != "FM8" {
		t.Errorf("PluginName = %v, want FM8", d.PluginName)
	}
	if d.PluginPreset == nil || *d.PluginPreset != "Init" {
		t.Errorf("PluginPreset = %v, want Init", d.PluginPreset)
	}
}
