package liveset

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

const (
	warpMarkerPath = "WarpMarkers/WarpMarker"
	keyTrackPath   = "Notes/KeyTracks/KeyTrack"
	noteEventPath  = "Notes/MidiNoteEvent"
	midiKeyPath    = "MidiKey"
	loopOnPath     = "Loop/LoopOn"
)

// Scalar fields of a clip and where Live keeps them.
var (
	clipStringFields = []struct {
		path string
		dst  func(*Clip) **string
	}{
		{"Name", func(c *Clip) **string { return &c.Name }},
		{"Annotation", func(c *Clip) **string { return &c.Annotation }},
	}

	clipIntFields = []struct {
		path string
		dst  func(*Clip) **int
	}{
		{"LaunchMode", func(c *Clip) **int { return &c.LaunchMode }},
	}

	// Each float field lists its candidate paths, newest schema first.
	clipFloatFields = []struct {
		paths []string
		dst   func(*Clip) **float64
	}{
		{[]string{"CurrentStart"}, func(c *Clip) **float64 { return &c.Start }},
		{[]string{"CurrentEnd"}, func(c *Clip) **float64 { return &c.End }},
		{[]string{"Loop/LoopStart"}, func(c *Clip) **float64 { return &c.LoopStart }},
		{[]string{"Loop/LoopEnd"}, func(c *Clip) **float64 { return &c.LoopEnd }},
		{[]string{"Loop/LoopStartRelative", "Loop/StartRelative"}, func(c *Clip) **float64 { return &c.LoopStartRelative }},
	}
)

// ExtractClip builds a Clip from a MidiClip element. Optional fields that
// are absent or unparsable are left nil. An error is returned only for a
// warp marker or note event that lacks a mandatory attribute.
func ExtractClip(e *etree.Element) (Clip, error) {
	var c Clip
	for _, f := range clipStringFields {
		*f.dst(&c) = optString(e, f.path)
	}
	for _, f := range clipIntFields {
		*f.dst(&c) = optInt(e, f.path)
	}
	for _, f := range clipFloatFields {
		*f.dst(&c) = optFloat(e, f.paths...)
	}
	c.LoopOn = Bool(e, loopOnPath)
	c.Length = difference(c.Start, c.End)
	c.LoopLength = difference(c.LoopStart, c.LoopEnd)

	markers, err := extractWarpMarkers(e)
	if err != nil {
		return Clip{}, err
	}
	c.WarpMarkers = markers

	notes, err := extractNotes(e)
	if err != nil {
		return Clip{}, err
	}
	c.Notes = notes
	c.TimeSignatures = clipTimeSignatures(e)
	return c, nil
}

func extractWarpMarkers(e *etree.Element) ([]WarpMarker, error) {
	var markers []WarpMarker
	for _, m := range e.FindElements(warpMarkerPath) {
		sec, err := floatAttr(m, "SecTime")
		if err != nil {
			return nil, err
		}
		beat, err := floatAttr(m, "BeatTime")
		if err != nil {
			return nil, err
		}
		markers = append(markers, WarpMarker{SecTime: sec, BeatTime: beat})
	}
	return markers, nil
}

// extractNotes flattens the per-pitch key tracks into a single list ordered
// by start time. Key tracks with no MidiKey element are skipped. Notes that start together keep key track order, then
// their order within the key track.
func extractNotes(e *etree.Element) ([]MidiNote, error) {
	var notes []MidiNote
	for _, kt := range e.FindElements(keyTrackPath) {
		// A key track without a key carries nothing that can be placed.
		if kt.FindElement(midiKeyPath) == nil {
			continue
		}
		key, ok := Int(kt, midiKeyPath)
		if !ok {
			v, _ := Value(kt, midiKeyPath)
			return nil, &MalformedElementError{Tag: kt.Tag, Attr: midiKeyPath, Value: v}
		}
		for _, ne := range kt.FindElements(noteEventPath) {
			n, err := extractNote(key, ne)
			if err != nil {
				return nil, err
			}
			notes = append(notes, n)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return notes, nil
}

func extractNote(key int, e *etree.Element) (MidiNote, error) {
	n := MidiNote{Key: key, Enabled: e.SelectAttrValue("IsEnabled", "") == "true"}
	var err error
	if n.Time, err = floatAttr(e, "Time"); err != nil {
		return MidiNote{}, err
	}
	if n.Duration, err = floatAttr(e, "Duration"); err != nil {
		return MidiNote{}, err
	}
	if n.Velocity, err = floatAttr(e, "Velocity"); err != nil {
		return MidiNote{}, err
	}
	if n.OffVelocity, err = intAttr(e, "OffVelocity"); err != nil {
		return MidiNote{}, err
	}
	return n, nil
}

func floatAttr(e *etree.Element, name string) (float64, error) {
	attr := e.SelectAttr(name)
	if attr == nil {
		return 0, &MalformedElementError{Tag: e.Tag, Attr: name}
	}
	f, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return 0, &MalformedElementError{Tag: e.Tag, Attr: name, Value: attr.Value}
	}
	return f, nil
}

func intAttr(e *etree.Element, name string) (int, error) {
	attr := e.SelectAttr(name)
	if attr == nil {
		return 0, &MalformedElementError{Tag: e.Tag, Attr: name}
	}
	n, err := strconv.Atoi(attr.Value)
	if err != nil {
		return 0, &MalformedElementError{Tag: e.Tag, Attr: name, Value: attr.Value}
	}
	return n, nil
}
