// Package report renders Live sets as text, JSON or YAML summaries
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/james-see/alsd/pkg/liveset"
	"gopkg.in/yaml.v3"
)

// Format is an output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", name)
	}
}

// Options controls what a report includes
type Options struct {
	Format      Format
	Track       int // 1-based; 0 means every track
	ShowDevices bool
	ShowClips   bool
}

const textTemplate = `{{ define "track" }}{{ .Index }}: {{ .Name }} ({{ .Kind }})
{{ if .ShowDevices }}{{ range .Devices }}{{ indent 2 . }}
{{ end }}{{ end }}{{ if .ShowClips }}{{ range .Clips }}{{ printf "Clip \"%s\" (loop length: %f bars)" .Name .LoopLength | indent 2 }}
{{ end }}{{ end }}{{ end }}
{{- range .Tracks }}{{ template "track" . }}{{ end }}`

var tmpl = template.Must(template.New("report").Funcs(sprig.TxtFuncMap()).Parse(textTemplate))

type trackView struct {
	Index       int
	Name        string
	Kind        string
	ShowDevices bool
	Devices     []string
	ShowClips   bool
	Clips       []clipView
}

type clipView struct {
	Name       string
	LoopLength float64
}

// Render writes a report of set to w. An out-of-range Options.Track yields
// a *liveset.TrackIndexError and writes nothing.
func Render(w io.Writer, set *liveset.LiveSet, opts Options) error {
	selected, err := selectTracks(set, opts.Track)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", FormatText:
		return renderText(w, selected, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(filtered(set, selected))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(filtered(set, selected)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

type indexedTrack struct {
	index int
	track *liveset.Track
}

func selectTracks(set *liveset.LiveSet, index int) ([]indexedTrack, error) {
	if index != 0 {
		t, err := set.Track(index)
		if err != nil {
			return nil, err
		}
		return []indexedTrack{{index, t}}, nil
	}
	out := make([]indexedTrack, len(set.Tracks))
	for i := range set.Tracks {
		out[i] = indexedTrack{i + 1, &set.Tracks[i]}
	}
	return out, nil
}

func renderText(w io.Writer, tracks []indexedTrack, opts Options) error {
	views := make([]trackView, 0, len(tracks))
	for _, it := range tracks {
		v := trackView{
			Index:       it.index,
			Name:        it.track.DisplayName(),
			Kind:        it.track.Kind,
			ShowDevices: opts.ShowDevices,
			ShowClips:   opts.ShowClips,
		}
		for _, d := range it.track.Devices {
			v.Devices = append(v.Devices, d.Name)
		}
		for i := range it.track.Clips {
			c := &it.track.Clips[i]
			cv := clipView{Name: c.DisplayName()}
			if c.LoopLength != nil {
				cv.LoopLength = *c.LoopLength
			}
			v.Clips = append(v.Clips, cv)
		}
		views = append(views, v)
	}
	return tmpl.Execute(w, struct{ Tracks []trackView }{views})
}

// filtered returns a shallow copy of set holding only the selected tracks
func filtered(set *liveset.LiveSet, tracks []indexedTrack) *liveset.LiveSet {
	if len(tracks) == len(set.Tracks) {
		return set
	}
	out := *set
	out.Tracks = make([]liveset.Track, len(tracks))
	for i, it := range tracks {
		out.Tracks[i] = *it.track
	}
	return &out
}
