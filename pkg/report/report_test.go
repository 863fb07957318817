package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/james-see/alsd/pkg/liveset"
	"gopkg.in/yaml.v3"
)

func ptr[T any](v T) *T { return &v }

func testSet() *liveset.LiveSet {
	return &liveset.LiveSet{
		Path:  "song.als",
		Tempo: ptr(128.0),
		Tracks: []liveset.Track{
			{
				Name: ptr("1-FM8"),
				Kind: "MidiTrack",
				Devices: []liveset.Device{
					{Kind: "AuPluginDevice", PresetName: "FM8: 6ties Mute Bass", Name: "AuPluginDevice: FM8: 6ties Mute Bass"},
					{Kind: "AuPluginDevice", PresetName: "Combo: Untitled", Name: "AuPluginDevice: Combo: Untitled"},
				},
				Clips: []liveset.Clip{
					{Name: ptr("A clip"), LoopLength: ptr(16.0)},
					{Name: ptr("Another clip"), LoopLength: ptr(4.0)},
					{},
				},
			},
			{Kind: "ReturnTrack"},
			{
				Name:  ptr("Odd"),
				Kind:  "MidiTrack",
				Clips: []liveset.Clip{{Name: ptr(`say "hi" C:\loops`), LoopLength: ptr(2.5)}},
			},
		},
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "tracks only",
			opts: Options{},
			want: "1: 1-FM8 (MidiTrack)\n2:  (ReturnTrack)\n3: Odd (MidiTrack)\n",
		},
		{
			name: "devices and clips",
			opts: Options{Track: 1, ShowDevices: true, ShowClips: true},
			want: "1: 1-FM8 (MidiTrack)\n" +
				"  AuPluginDevice: FM8: 6ties Mute Bass\n" +
				"  AuPluginDevice: Combo: Untitled\n" +
				"  Clip \"A clip\" (loop length: 16.000000 bars)\n" +
				"  Clip \"Another clip\" (loop length: 4.000000 bars)\n" +
				"  Clip \"\" (loop length: 0.000000 bars)\n",
		},
		{
			name: "clip names printed verbatim",
			opts: Options{Track: 3, ShowClips: true},
			want: "3: Odd (MidiTrack)\n" +
				"  Clip \"say \"hi\" C:\\loops\" (loop length: 2.500000 bars)\n",
		},
		{
			name: "second track devices",
			opts: Options{Format: FormatText, Track: 2, ShowDevices: true},
			want: "2:  (ReturnTrack)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, testSet(), tt.opts); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestRenderTrackOutOfRange(t *testing.T) {
	for _, format := range Formats() {
		for _, index := range []int{-1, 4} {
			var buf bytes.Buffer
			err := Render(&buf, testSet(), Options{Format: format, Track: index})
			var ie *liveset.TrackIndexError
			if !errors.As(err, &ie) {
				t.Errorf("Render(%s, track %d) error = %v, want *TrackIndexError", format, index, err)
			}
			if buf.Len() != 0 {
				t.Errorf("Render(%s, track %d) wrote %q", format, index, buf.String())
			}
		}
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testSet(), Options{Format: FormatJSON, Track: 1}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got liveset.LiveSet
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(got.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(got.Tracks))
	}
	if got.Tracks[0].Devices[0].PresetName != "FM8: 6ties Mute Bass" {
		t.Errorf("device = %q", got.Tracks[0].Devices[0].PresetName)
	}
	if got.Tempo == nil || *got.Tempo != 128 {
		t.Errorf("tempo = %v, want 128", got.Tempo)
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testSet(), Options{Format: FormatYAML}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got struct {
		Path   string `yaml:"path"`
		Tracks []struct {
			Kind  string `yaml:"kind"`
			Clips []struct {
				Name       *string  `yaml:"name"`
				LoopLength *float64 `yaml:"loopLength"`
			} `yaml:"clips"`
		} `yaml:"tracks"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if got.Path != "song.als" || len(got.Tracks) != 3 {
		t.Fatalf("got path %q with %d tracks", got.Path, len(got.Tracks))
	}
	clips := got.Tracks[0].Clips
	if len(clips) != 3 || clips[2].Name != nil || clips[2].LoopLength != nil {
		t.Errorf("clips = %+v, want third clip without name or loop length", clips)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
