// Package converter exports Ableton Live sets to Standard MIDI Files and
// report files
package converter

// Options selects what part of a set a conversion covers
type Options struct {
	Track       int  // 1-based track number; 0 means none selected
	Clip        int  // 1-based clip number within the track; 0 means every clip
	ShowDevices bool // report outputs only
	ShowClips   bool // report outputs only
}

// Converter handles format conversions
type Converter struct {
	opts Options
}

// New creates a new Converter with the specified options
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Options returns the current options
func (c *Converter) Options() Options {
	return c.opts
}

// SetOptions sets the options for conversion
func (c *Converter) SetOptions(opts Options) {
	c.opts = opts
}
