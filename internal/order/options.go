package order

import (
	"fmt"
	"strconv"
	"strings"
)

// TieBreak decides the relative order of members the dependency comparator treats as equal.
type TieBreak string

const (
	// TieBreakSource keeps source order (stable sort, no extra key).
	TieBreakSource TieBreak = "source"
	// TieBreakName orders otherwise-equal members with resolved names by name.
	TieBreakName TieBreak = "name"
)

// ParseTieBreak parses a tie-break mode; the empty string means TieBreakSource.
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case "", TieBreakSource:
		return TieBreakSource, nil
	case TieBreakName:
		return TieBreakName, nil
	default:
		return "", fmt.Errorf("invalid tie-break %q: must be 'source' or 'name'", s)
	}
}

// Options configure the declaration rewriter.
type Options struct {
	TieBreak TieBreak

	// ObjectLiterals also reorders the properties of object literals.
	ObjectLiterals bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{TieBreak: TieBreakSource}
}

// Fingerprint is a stable string identifying everything in o that affects output.
func (o Options) Fingerprint() string {
	tb := o.TieBreak
	if tb == "" {
		tb = TieBreakSource
	}
	return "tie=" + string(tb) + ";obj=" + strconv.FormatBool(o.ObjectLiterals)
}
