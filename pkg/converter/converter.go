package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/alsd/pkg/liveset"
	"github.com/james-see/alsd/pkg/report"
)

// Format represents a file format
type Format string

const (
	FormatLiveSet Format = "als"
	FormatMIDI    Format = "midi"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".als":
		return FormatLiveSet
	case ".mid", ".midi":
		return FormatMIDI
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".txt":
		return FormatText
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Live sets are gzip streams
	if data[0] == 0x1f && data[1] == 0x8b {
		return FormatLiveSet
	}

	// Check for MIDI file signature "MThd"
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	return FormatUnknown
}

// ConvertFile converts a Live set into a MIDI file or a report file
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	inputFormat := DetectFormat(inputPath)
	outputFormat := DetectFormat(outputPath)

	if inputFormat == FormatUnknown {
		// Try to detect from content
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		inputFormat = DetectFormatFromContent(data)
	}

	if inputFormat != FormatLiveSet {
		return fmt.Errorf("unsupported input format: %s", inputFormat)
	}
	if outputFormat == FormatUnknown || outputFormat == FormatLiveSet {
		return errors.New("cannot determine output format from filename")
	}

	set, err := liveset.Load(inputPath)
	if err != nil {
		return err
	}

	outputData, err := c.Convert(set, outputFormat)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// Convert renders a loaded set in the given output format
func (c *Converter) Convert(set *liveset.LiveSet, format Format) ([]byte, error) {
	switch format {
	case FormatMIDI:
		return c.SetToMIDI(set)
	case FormatJSON, FormatYAML, FormatText:
		rf, err := report.ParseFormat(string(format))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		err = report.Render(&buf, set, report.Options{
			Format:      rf,
			Track:       c.opts.Track,
			ShowDevices: c.opts.ShowDevices,
			ShowClips:   c.opts.ShowClips,
		})
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SetToMIDI exports the selected track, or the selected clip of it, using
// the set's tempo and master-track meters
func (c *Converter) SetToMIDI(set *liveset.LiveSet) ([]byte, error) {
	if c.opts.Clip == 0 {
		track, err := c.selectedTrack(set)
		if err != nil {
			return nil, err
		}
		return MIDIConverterFor(set).TrackToMIDI(track)
	}
	clip, err := c.SelectedClip(set)
	if err != nil {
		return nil, err
	}
	return MIDIConverterFor(set).ClipToMIDI(clip)
}

// SelectedClip returns the clip picked by Options.Track and Options.Clip
func (c *Converter) SelectedClip(set *liveset.LiveSet) (*liveset.Clip, error) {
	track, err := c.selectedTrack(set)
	if err != nil {
		return nil, err
	}
	if c.opts.Clip < 1 || c.opts.Clip > len(track.Clips) {
		return nil, fmt.Errorf("track %d has %d clips, no clip %d", c.opts.Track, len(track.Clips), c.opts.Clip)
	}
	return &track.Clips[c.opts.Clip-1], nil
}

func (c *Converter) selectedTrack(set *liveset.LiveSet) (*liveset.Track, error) {
	if c.opts.Track == 0 {
		return nil, errors.New("a track number is required for MIDI export")
	}
	return set.Track(c.opts.Track)
}

// MIDIConverterFor returns a MIDI converter set up with the set's tempo
// and, when the master track has any, its meters
func MIDIConverterFor(set *liveset.LiveSet) *MIDIConverter {
	m := NewMIDIConverter()
	if set.Tempo != nil {
		m.SetTempo(*set.Tempo)
	}
	m.SetTimeSignatures(set.TimeSignatures)
	return m
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"als -> midi",
		"als -> json",
		"als -> yaml",
		"als -> text",
	}
}
