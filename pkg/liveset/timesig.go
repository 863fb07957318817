package liveset

import (
	"strconv"

	"github.com/beevik/etree"
)

const (
	clipTimeSigPath   = "TimeSignature/TimeSignatures/RemoteableTimeSignature"
	masterTimeSigPath = "DeviceChain/Mixer/TimeSignature/AutomationTarget"
	envelopePath      = "AutomationEnvelopes/Envelopes/AutomationEnvelope"
	pointeePath       = "EnvelopeTarget/PointeeId"
	enumEventPath     = "Automation/Events/EnumEvent"

	// Live packs a meter into one automation value as
	// (numerator-1) + 99*log2(denominator).
	timeSigNumeratorRange = 99
)

// clipTimeSignatures reads the meters stored on a clip. Entries without a
// usable numerator and denominator are skipped.
func clipTimeSignatures(e *etree.Element) []TimeSignatureChange {
	var sigs []TimeSignatureChange
	for _, ts := range e.FindElements(clipTimeSigPath) {
		num, okNum := Int(ts, "Numerator")
		den, okDen := Int(ts, "Denominator")
		if !okNum || !okDen || num < 1 || den < 1 {
			continue
		}
		t, _ := Float(ts, "Time")
		sigs = append(sigs, TimeSignatureChange{Time: clampTime(t), Numerator: num, Denominator: den})
	}
	return sigs
}

// masterTimeSignatures reads the time signature automation of the master
// track. Live stores meter changes as enum events on the envelope that
// points at the mixer's TimeSignature automation target.
func masterTimeSignatures(master *etree.Element) []TimeSignatureChange {
	if master == nil {
		return nil
	}
	target := master.FindElement(masterTimeSigPath)
	if target == nil {
		return nil
	}
	id := target.SelectAttrValue("Id", "")
	if id == "" {
		return nil
	}

	var sigs []TimeSignatureChange
	for _, env := range master.FindElements(envelopePath) {
		if pointee, _ := Value(env, pointeePath); pointee != id {
			continue
		}
		for _, ev := range env.FindElements(enumEventPath) {
			t, err := strconv.ParseFloat(ev.SelectAttrValue("Time", ""), 64)
			if err != nil {
				continue
			}
			v, err := strconv.Atoi(ev.SelectAttrValue(valueAttr, ""))
			if err != nil {
				continue
			}
			num, den, ok := DecodeTimeSignature(v)
			if !ok {
				continue
			}
			sigs = append(sigs, TimeSignatureChange{Time: clampTime(t), Numerator: num, Denominator: den})
		}
		break
	}
	return sigs
}

// DecodeTimeSignature unpacks Live's enum encoding of a meter.
func DecodeTimeSignature(v int) (numerator, denominator int, ok bool) {
	if v < 0 {
		return 0, 0, false
	}
	exp := v / timeSigNumeratorRange
	if exp > 6 {
		return 0, 0, false
	}
	return v%timeSigNumeratorRange + 1, 1 << exp, true
}

// EncodeTimeSignature is the inverse of DecodeTimeSignature.
func EncodeTimeSignature(numerator, denominator int) (int, bool) {
	if numerator < 1 || numerator > timeSigNumeratorRange || denominator < 1 {
		return 0, false
	}
	exp := 0
	for d := denominator; d > 1; d >>= 1 {
		if d&1 != 0 {
			return 0, false
		}
		exp++
	}
	return numerator - 1 + timeSigNumeratorRange*exp, true
}

// Live places the initial automation event far before the song start.
func clampTime(t float64) float64 {
	if t < 0 {
		return 0
	}
	return t
}
