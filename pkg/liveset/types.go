// Package liveset extracts tracks, devices, clips and notes from Ableton Live
// set (.als) files.
//
// A Live set is a gzip-compressed XML document whose schema drifts between
// Live versions. Extraction is tolerant: optional fields that are missing or
// malformed come back as nil rather than as errors. Only a file that is not a
// recognizable Live set at all (not gzip, not XML, no LiveSet/Tracks) fails.
package liveset

// LiveSet is the parsed contents of one .als file.
type LiveSet struct {
	Path           string                `json:"path,omitempty" yaml:"path,omitempty"`
	Creator        *string               `json:"creator,omitempty" yaml:"creator,omitempty"`
	MajorVersion   *string               `json:"majorVersion,omitempty" yaml:"majorVersion,omitempty"`
	MinorVersion   *string               `json:"minorVersion,omitempty" yaml:"minorVersion,omitempty"`
	Tempo          *float64              `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	TimeSignatures []TimeSignatureChange `json:"timeSignatures,omitempty" yaml:"timeSignatures,omitempty"`
	Tracks         []Track               `json:"tracks" yaml:"tracks"`
}

// Track is one lane of the session: its device chain and its MIDI clips.
type Track struct {
	Name          *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Kind          string   `json:"kind" yaml:"kind"` // element tag, e.g. MidiTrack
	Devices       []Device `json:"devices" yaml:"devices"`
	Clips         []Clip   `json:"clips" yaml:"clips"`
	ClipSlotCount int      `json:"clipSlotCount" yaml:"clipSlotCount"`
}

// Device is an instrument or effect on a track's device chain.
type Device struct {
	Kind string `json:"kind" yaml:"kind"`
	// PresetName is the best available name for the device instance.
	// It is never absent but may be empty.
	PresetName   string  `json:"presetName" yaml:"presetName"`
	Name         string  `json:"name" yaml:"name"`
	PluginName   *string `json:"pluginName,omitempty" yaml:"pluginName,omitempty"`
	PluginPreset *string `json:"pluginPreset,omitempty" yaml:"pluginPreset,omitempty"`
}

// Clip is a MIDI clip. Positions are in beats.
type Clip struct {
	Name       *string `json:"name,omitempty" yaml:"name,omitempty"`
	Annotation *string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	LaunchMode *int    `json:"launchMode,omitempty" yaml:"launchMode,omitempty"`

	Start  *float64 `json:"start,omitempty" yaml:"start,omitempty"`
	End    *float64 `json:"end,omitempty" yaml:"end,omitempty"`
	Length *float64 `json:"length,omitempty" yaml:"length,omitempty"`

	LoopStart         *float64 `json:"loopStart,omitempty" yaml:"loopStart,omitempty"`
	LoopEnd           *float64 `json:"loopEnd,omitempty" yaml:"loopEnd,omitempty"`
	LoopStartRelative *float64 `json:"loopStartRelative,omitempty" yaml:"loopStartRelative,omitempty"`
	LoopLength        *float64 `json:"loopLength,omitempty" yaml:"loopLength,omitempty"`
	LoopOn            bool     `json:"loopOn" yaml:"loopOn"`

	WarpMarkers    []WarpMarker          `json:"warpMarkers,omitempty" yaml:"warpMarkers,omitempty"`
	Notes          []MidiNote            `json:"notes,omitempty" yaml:"notes,omitempty"`
	TimeSignatures []TimeSignatureChange `json:"timeSignatures,omitempty" yaml:"timeSignatures,omitempty"`
}

// WarpMarker pins a position in seconds to a position in beats.
type WarpMarker struct {
	SecTime  float64 `json:"secTime" yaml:"secTime"`
	BeatTime float64 `json:"beatTime" yaml:"beatTime"`
}

// MidiNote is a single note event. Live stores velocity as a float and
// release velocity as an integer; both are kept as stored.
type MidiNote struct {
	Time        float64 `json:"time" yaml:"time"`
	Key         int     `json:"key" yaml:"key"`
	Duration    float64 `json:"duration" yaml:"duration"`
	Velocity    float64 `json:"velocity" yaml:"velocity"`
	OffVelocity int     `json:"offVelocity" yaml:"offVelocity"`
	Enabled     bool    `json:"enabled" yaml:"enabled"`
}

// TimeSignatureChange is a meter that takes effect at Time (in beats).
type TimeSignatureChange struct {
	Time        float64 `json:"time" yaml:"time"`
	Numerator   int     `json:"numerator" yaml:"numerator"`
	Denominator int     `json:"denominator" yaml:"denominator"`
}
