package sunevent

import (
	"fmt"
	"strings"

	"github.com/subtlepseudonym/sunevent/solar"
)

// Kind is a type of daily solar event.
type Kind int

const (
	Sunrise Kind = iota
	Sunset
	Dawn
	Dusk
	SolarNoon
)

var kindNames = map[Kind]string{
	Sunrise:   "sunrise",
	Sunset:    "sunset",
	Dawn:      "dawn",
	Dusk:      "dusk",
	SolarNoon: "noon",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the lower case names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown solar event %q", s)
}

// rising reports whether the event uses the morning (positive) hour
// angle.
func (k Kind) rising() bool {
	return k == Sunrise || k == Dawn
}

func (s *SunEvent) zenith(kind Kind) solar.Zenith {
	switch kind {
	case Dawn, Dusk:
		return s.twilight
	default:
		return solar.Official
	}
}
