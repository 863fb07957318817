package liveset

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// valueAttr is the attribute Live uses for almost every scalar.
const valueAttr = "Value"

// Value returns the Value attribute of the element found by following path
// (slash-separated tag names) from e. The second result is false if any
// path segment or the attribute itself is missing.
func Value(e *etree.Element, path string) (string, bool) {
	if e == nil {
		return "", false
	}
	target := e.FindElement(path)
	if target == nil {
		return "", false
	}
	attr := target.SelectAttr(valueAttr)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// Int is Value coerced to an integer. Text that does not parse is treated
// as missing.
func Int(e *etree.Element, path string) (int, bool) {
	s, ok := Value(e, path)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float is Value coerced to a float64. Text that does not parse is treated
// as missing.
func Float(e *etree.Element, path string) (float64, bool) {
	s, ok := Value(e, path)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool reports whether Value is exactly "true".
func Bool(e *etree.Element, path string) bool {
	s, _ := Value(e, path)
	return s == "true"
}

// FirstFloat tries each path in order and returns the first float found.
// Used where the same field has lived at different paths across versions.
func FirstFloat(e *etree.Element, paths ...string) (float64, bool) {
	for _, p := range paths {
		if f, ok := Float(e, p); ok {
			return f, true
		}
	}
	return 0, false
}

// Optional wrappers used by the field tables.

func optString(e *etree.Element, path string) *string {
	if s, ok := Value(e, path); ok {
		return &s
	}
	return nil
}

func optInt(e *etree.Element, path string) *int {
	if n, ok := Int(e, path); ok {
		return &n
	}
	return nil
}

func optFloat(e *etree.Element, paths ...string) *float64 {
	if f, ok := FirstFloat(e, paths...); ok {
		return &f
	}
	return nil
}

// difference returns b - a when both are present.
func difference(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *b - *a
	return &d
}
