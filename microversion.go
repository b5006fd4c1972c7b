package osproto

import (
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Microversion is a per-request API version negotiated as a (major, minor) pair.
//
// The zero value means "not negotiated". Services answer such requests with
// their base version, so query parameters gated on any microversion are
// dropped for it.
type Microversion struct {
	Major int
	Minor int
}

// Latest compares greater than or equal to every concrete microversion.
var Latest = Microversion{Major: math.MaxInt32, Minor: math.MaxInt32}

// MV is shorthand for Microversion{Major: major, Minor: minor}.
func MV(major, minor int) Microversion { return Microversion{Major: major, Minor: minor} }

// ParseMicroversion accepts "X.Y" or "latest".
func ParseMicroversion(s string) (Microversion, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "latest") {
		return Latest, nil
	}
	if strings.Count(s, ".") != 1 {
		return Microversion{}, fmt.Errorf("osproto: microversion %q: want MAJOR.MINOR", s)
	}
	v, err := semver.StrictNewVersion(s + ".0")
	if err != nil {
		return Microversion{}, fmt.Errorf("osproto: microversion %q: %w", s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Microversion{}, fmt.Errorf("osproto: microversion %q: want MAJOR.MINOR", s)
	}
	return Microversion{Major: int(v.Major()), Minor: int(v.Minor())}, nil
}

// MustParseMicroversion panics on malformed input. Intended for descriptor tables.
func MustParseMicroversion(s string) Microversion {
	mv, err := ParseMicroversion(s)
	if err != nil {
		panic(err)
	}
	return mv
}

func (m Microversion) IsZero() bool   { return m == Microversion{} }
func (m Microversion) IsLatest() bool { return m == Latest }

// Less reports whether m sorts before other.
func (m Microversion) Less(other Microversion) bool {
	if m.Major != other.Major {
		return m.Major < other.Major
	}
	return m.Minor < other.Minor
}

// AtLeast reports whether m >= min.
func (m Microversion) AtLeast(min Microversion) bool { return !m.Less(min) }

func (m Microversion) String() string {
	if m.IsLatest() {
		return "latest"
	}
	return fmt.Sprintf("%d.%d", m.Major, m.Minor)
}

// HeaderValue renders the OpenStack-API-Version header value, e.g. "compute 2.60".
func (m Microversion) HeaderValue(service string) string {
	return service + " " + m.String()
}

// ParseHeaderValue parses an OpenStack-API-Version header value ("compute 2.60").
func ParseHeaderValue(v string) (service string, mv Microversion, err error) {
	fields := strings.Fields(v)
	if len(fields) != 2 {
		return "", Microversion{}, fmt.Errorf("osproto: api version header %q: want \"SERVICE X.Y\"", v)
	}
	mv, err = ParseMicroversion(fields[1])
	if err != nil {
		return "", Microversion{}, err
	}
	return fields[0], mv, nil
}
