package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/james-see/alsd/pkg/liveset"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultTempo is used when a set has no master tempo
const DefaultTempo = 120.0

// MIDIConverter renders Live clips as Standard MIDI Files
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
	channel         uint8
	meters          []liveset.TimeSignatureChange // overrides clip meters when set
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           DefaultTempo,
	}
}

// SetTempo sets the tempo written to the conductor track. Non-positive
// values fall back to DefaultTempo.
func (m *MIDIConverter) SetTempo(bpm float64) {
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	m.tempo = bpm
}

// SetTimeSignatures sets the meters written to the conductor track in
// place of the clips' own. An empty list restores the clip meters.
func (m *MIDIConverter) SetTimeSignatures(meters []liveset.TimeSignatureChange) {
	m.meters = meters
}

// Tempo returns the tempo in beats per minute
func (m *MIDIConverter) Tempo() float64 {
	return m.tempo
}

// ClipToMIDI renders one clip as a two-track SMF: a conductor track and
// the clip's notes
func (m *MIDIConverter) ClipToMIDI(clip *liveset.Clip) ([]byte, error) {
	if clip == nil {
		return nil, errors.New("nil clip")
	}
	return m.write(clip.TimeSignatures, []*liveset.Clip{clip})
}

// TrackToMIDI renders every clip of a track, one SMF track per clip
func (m *MIDIConverter) TrackToMIDI(track *liveset.Track) ([]byte, error) {
	if track == nil {
		return nil, errors.New("nil track")
	}
	if len(track.Clips) == 0 {
		return nil, fmt.Errorf("track %q has no MIDI clips", track.DisplayName())
	}
	clips := make([]*liveset.Clip, len(track.Clips))
	var meters []liveset.TimeSignatureChange
	for i := range track.Clips {
		clips[i] = &track.Clips[i]
		if meters == nil {
			meters = track.Clips[i].TimeSignatures
		}
	}
	return m.write(meters, clips)
}

func (m *MIDIConverter) write(meters []liveset.TimeSignatureChange, clips []*liveset.Clip) ([]byte, error) {
	if len(m.meters) > 0 {
		meters = m.meters
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	if err := s.Add(m.conductorTrack(meters)); err != nil {
		return nil, fmt.Errorf("failed to add conductor track: %w", err)
	}
	for _, clip := range clips {
		if err := s.Add(m.clipTrack(clip)); err != nil {
			return nil, fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// conductorTrack carries tempo and meter changes
func (m *MIDIConverter) conductorTrack(meters []liveset.TimeSignatureChange) smf.Track {
	var track smf.Track

	microsecondsPerBeat := uint32(60000000.0 / m.tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	sorted := append([]liveset.TimeSignatureChange(nil), meters...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	if len(sorted) == 0 {
		sorted = []liveset.TimeSignatureChange{{Time: 0, Numerator: 4, Denominator: 4}}
	}

	var currentTick uint32
	for _, ts := range sorted {
		msg, ok := timeSignatureMessage(ts)
		if !ok {
			continue
		}
		tick := m.beatsToTicks(ts.Time)
		track.Add(tick-currentTick, msg)
		currentTick = tick
	}

	track.Close(0)
	return track
}

// timeSignatureMessage builds an FF 58 meta event; the denominator is
// stored as a power of two
func timeSignatureMessage(ts liveset.TimeSignatureChange) (smf.Message, bool) {
	if ts.Numerator < 1 || ts.Numerator > 255 || ts.Denominator < 1 {
		return nil, false
	}
	power := 0
	for d := ts.Denominator; d > 1; d >>= 1 {
		if d&1 != 0 {
			return nil, false
		}
		power++
	}
	return smf.Message([]byte{0xFF, 0x58, 0x04, byte(ts.Numerator), byte(power), 0x18, 0x08}), true
}

type noteEvent struct {
	tick     uint32
	key      uint8
	velocity uint8
	on       bool
}

// clipTrack converts a clip's enabled notes into note on/off pairs
func (m *MIDIConverter) clipTrack(clip *liveset.Clip) smf.Track {
	var track smf.Track
	if name := clip.DisplayName(); name != "" {
		track.Add(0, smf.MetaTrackSequenceName(name))
	}

	var events []noteEvent
	for _, n := range clip.Notes {
		if !n.Enabled || n.Key < 0 || n.Key > 127 {
			continue
		}
		start := m.beatsToTicks(n.Time)
		end := m.beatsToTicks(n.Time + n.Duration)
		if end <= start {
			end = start + 1
		}
		events = append(events,
			noteEvent{tick: start, key: uint8(n.Key), velocity: clampVelocity(n.Velocity, 1), on: true},
			noteEvent{tick: end, key: uint8(n.Key), velocity: clampVelocity(float64(n.OffVelocity), 0)},
		)
	}

	// Offs go first at a shared tick so a repeated key retriggers cleanly.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var currentTick uint32
	for _, ev := range events {
		delta := ev.tick - currentTick
		if ev.on {
			track.Add(delta, midi.NoteOn(m.channel, ev.key, ev.velocity))
		} else {
			track.Add(delta, midi.NoteOffVelocity(m.channel, ev.key, ev.velocity))
		}
		currentTick = ev.tick
	}

	// Pad to the loop end so the file loops the same way the clip does.
	if clip.LoopEnd != nil {
		if endTick := m.beatsToTicks(*clip.LoopEnd); endTick > currentTick {
			track.Close(endTick - currentTick)
			return track
		}
	}
	track.Close(0)
	return track
}

func (m *MIDIConverter) beatsToTicks(beats float64) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(math.Round(beats * float64(m.ticksPerQuarter)))
}

// clampVelocity truncates Live's float velocity into the MIDI range
func clampVelocity(v float64, floor uint8) uint8 {
	switch {
	case v < float64(floor):
		return floor
	case v > 127:
		return 127
	default:
		return uint8(v)
	}
}

// WriteMIDIFile writes a clip as a MIDI file
func (m *MIDIConverter) WriteMIDIFile(clip *liveset.Clip, filename string) error {
	data, err := m.ClipToMIDI(clip)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
