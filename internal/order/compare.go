package order

import (
	"cmp"
	"slices"
	"strings"

	"deporder/internal/syntax"
)

// Comparator orders the members of one declaration so dependencies come first.
type Comparator struct {
	deps     Deps
	tieBreak TieBreak
}

// NewComparator closes over a dependency mapping snapshot.
func NewComparator(deps Deps, opts Options) *Comparator {
	return &Comparator{deps: deps, tieBreak: opts.TieBreak}
}

// Compare returns a negative number when a must come before b, a positive number when
// it must come after, and zero when the mapping gives no reason to move either.
func (c *Comparator) Compare(a, b syntax.Node) int {
	na, nb := NameOf(a), NameOf(b)
	if r := c.CompareNames(na, nb); r != 0 {
		return r
	}
	if c.tieBreak == TieBreakName && na.OK && nb.OK {
		return strings.Compare(na.Value, nb.Value)
	}
	return 0
}

// CompareNames applies the dependency rules to two member names:
// direct dependencies dominate, then the smaller dependency set sorts first.
func (c *Comparator) CompareNames(a, b Name) int {
	da, db := c.deps.Of(a), c.deps.Of(b)
	if len(da) == 0 && len(db) == 0 {
		return 0
	}
	if b.OK && slices.Contains(da, b.Value) {
		return 1
	}
	if a.OK && slices.Contains(db, a.Value) {
		return -1
	}
	return cmp.Compare(len(da), len(db))
}
