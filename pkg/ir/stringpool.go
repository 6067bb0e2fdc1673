package ir

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// StringPool interns string literals by content, assigning each distinct
// literal a symbol ($s0, $s1, ...) in first-appearance order (spec §4.4
// Strings, tested by the "string pool" invariant in spec §8). Lookups are
// content-hashed with xxhash so repeated identical literals across a large
// translation unit don't cost an O(n) string compare per PushStr, the same
// motivation the teacher's go.mod pulls in cespare/xxhash for.
type StringPool struct {
	index   map[uint64][]entry
	order   []string // literal bytes, in first-appearance order
	symbols []string // symbols, index-aligned with order
}

type entry struct {
	literal string
	symbol  string
}

func NewStringPool() *StringPool {
	return &StringPool{index: make(map[uint64][]entry)}
}

// Intern returns the symbol for literal, assigning a fresh one the first
// time a given byte sequence is seen.
func (p *StringPool) Intern(literal string) string {
	h := xxhash.Sum64String(literal)
	for _, e := range p.index[h] {
		if e.literal == literal {
			return e.symbol
		}
	}
	symbol := "s" + strconv.Itoa(len(p.order))
	p.index[h] = append(p.index[h], entry{literal: literal, symbol: symbol})
	p.order = append(p.order, literal)
	p.symbols = append(p.symbols, symbol)
	return symbol
}

// Entries returns (symbol, literal) pairs in first-appearance order, the
// order the backend must emit `data` declarations in.
func (p *StringPool) Entries() []struct{ Symbol, Literal string } {
	out := make([]struct{ Symbol, Literal string }, len(p.order))
	for i, lit := range p.order {
		out[i] = struct{ Symbol, Literal string }{Symbol: p.symbols[i], Literal: lit}
	}
	return out
}
