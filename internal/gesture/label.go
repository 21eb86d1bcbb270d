// Package gesture turns hand landmarks into sign words: geometric
// classification, temporal stabilization, debouncing and sentence assembly.
package gesture

import (
	"fmt"
	"strings"
)

// Label is a recognized sign. The zero value None means no sign.
type Label int

const (
	None Label = iota
	Hello
	ThankYou
	Yes
	OK
	Good
	Stop
	Help
	Peace
	ILoveYou
	One
	Two
	Three
	Four
)

// Labels lists every sign in declaration order, excluding None.
var Labels = []Label{Hello, ThankYou, Yes, OK, Good, Stop, Help, Peace, ILoveYou, One, Two, Three, Four}

var labelNames = map[Label]string{
	Hello:    "Hello",
	ThankYou: "Thank You",
	Yes:      "Yes",
	OK:       "OK",
	Good:     "Good",
	Stop:     "Stop",
	Help:     "Help",
	Peace:    "Peace",
	ILoveYou: "I Love You",
	One:      "One",
	Two:      "Two",
	Three:    "Three",
	Four:     "Four",
}

// String returns the display name, which is also the default spoken text.
func (l Label) String() string {
	if l == None {
		return "none"
	}
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Key returns the identifier form ("ThankYou") used in URLs and storage.
func (l Label) Key() string {
	return strings.ReplaceAll(l.String(), " ", "")
}

// Valid reports whether l is one of the known signs.
func (l Label) Valid() bool {
	_, ok := labelNames[l]
	return ok
}

// MarshalText encodes the label by its display name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLabel accepts a key ("ThankYou") or display name ("Thank You"),
// case-insensitively.
func ParseLabel(s string) (Label, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if norm == "" || norm == "none" {
		return None, nil
	}
	for _, l := range Labels {
		if strings.ToLower(l.Key()) == norm {
			return l, nil
		}
	}
	return None, fmt.Errorf("unknown sign %q", s)
}
