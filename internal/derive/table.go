package derive

import (
	"fmt"
	"strconv"
)

// MapperPair is the pair of mapper-function names generated for one
// active type variable: the forward mapper (source to target) and the
// backward mapper (target to source).
type MapperPair struct {
	Forward  string
	Backward string
}

// Swap exchanges the two directions.
func (p MapperPair) Swap() MapperPair {
	return MapperPair{Forward: p.Backward, Backward: p.Forward}
}

// direction selects which side of a MapperPair a position needs.
// Variance flips the direction under every function-domain position.
type direction int

const (
	dirForward direction = iota
	dirBackward
)

func (d direction) flip() direction {
	if d == dirForward {
		return dirBackward
	}

	return dirForward
}

// MapperTable associates each active type variable with its mapper
// pair. Built once per derivation, read-only afterwards; a variable
// absent from the table is inactive and its occurrences resolve to
// Identity.
type MapperTable struct {
	order []string
	pairs map[string]MapperPair
}

// NewMapperTable builds a table from the ordered active variables and
// their matching mapper pairs.
func NewMapperTable(vars []string, pairs []MapperPair) (*MapperTable, error) {
	if len(vars) != len(pairs) {
		return nil, fmt.Errorf("mapper table: %d variables but %d pairs", len(vars), len(pairs))
	}

	t := &MapperTable{
		order: append([]string(nil), vars...),
		pairs: make(map[string]MapperPair, len(vars)),
	}

	for i, v := range vars {
		if _, dup := t.pairs[v]; dup {
			return nil, fmt.Errorf("mapper table: duplicate active variable %s", v)
		}

		t.pairs[v] = pairs[i]
	}

	return t, nil
}

// Lookup returns the mapper pair for an active variable.
func (t *MapperTable) Lookup(name string) (MapperPair, bool) {
	p, ok := t.pairs[name]
	return p, ok
}

// Vars returns the active variables in declaration order.
func (t *MapperTable) Vars() []string {
	return t.order
}

// Arity returns the number of active variables.
func (t *MapperTable) Arity() int {
	return len(t.order)
}

// ActiveSet returns the active variable names as a set.
func (t *MapperTable) ActiveSet() map[string]bool {
	set := make(map[string]bool, len(t.order))
	for _, v := range t.order {
		set[v] = true
	}

	return set
}

// nameSupply hands out names unique within one derivation. Uniqueness
// does not span derivations; each request starts a fresh supply.
type nameSupply struct {
	counts map[string]int
}

func newNameSupply() *nameSupply {
	return &nameSupply{counts: map[string]int{}}
}

// next returns prefixN with a per-prefix counter starting at 1.
func (s *nameSupply) next(prefix string) string {
	s.counts[prefix]++

	return prefix + strconv.Itoa(s.counts[prefix])
}
