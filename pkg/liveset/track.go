package liveset

import (
	"fmt"

	"github.com/beevik/etree"
)

const (
	trackNamePath    = "Name/EffectiveName"
	devicesPath      = "DeviceChain/DeviceChain/Devices"
	clipSlotListPath = "DeviceChain/MainSequencer/ClipSlotList"
	clipSlotPath     = "ClipSlot"
	midiClipTag      = "MidiClip"
)

// ExtractTrack builds a Track from a track element. A track without a
// device chain or clip slot list gets empty device or clip lists.
func ExtractTrack(e *etree.Element) (Track, error) {
	t := Track{
		Name:    optString(e, trackNamePath),
		Kind:    e.Tag,
		Devices: []Device{},
		Clips:   []Clip{},
	}

	if devices := e.FindElement(devicesPath); devices != nil {
		for _, d := range devices.ChildElements() {
			t.Devices = append(t.Devices, ExtractDevice(d))
		}
	}

	slots := e.FindElement(clipSlotListPath)
	if slots == nil {
		return t, nil
	}
	t.ClipSlotCount = len(slots.SelectElements(clipSlotPath))
	for i, ce := range midiClips(slots, nil) {
		c, err := ExtractClip(ce)
		if err != nil {
			return Track{}, fmt.Errorf("clip %d: %w", i+1, err)
		}
		t.Clips = append(t.Clips, c)
	}
	return t, nil
}

// midiClips collects MidiClip elements at any depth below e in document
// order. etree's ".//" selector is breadth-first, so the walk is explicit.
func midiClips(e *etree.Element, acc []*etree.Element) []*etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == midiClipTag {
			acc = append(acc, child)
		}
		acc = midiClips(child, acc)
	}
	return acc
}

// DisplayName returns the track name or "" when the track has none.
func (t *Track) DisplayName() string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

// DisplayName returns the clip name or "" when the clip has none.
func (c *Clip) DisplayName() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}
