// Package parser implements Tack's fused parser and stack type-checker
// (spec §4.3): the core subsystem that walks a token stream once, building
// an AST while symbolically executing a compile-time type stack at every
// op. Grammar errors and stack type errors share one error path.
package parser

import (
	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/lexer"
	"github.com/vsthijs/tack/pkg/token"
	"github.com/vsthijs/tack/pkg/types"
)

// funcSig is a function's declared, concrete signature, as recorded in the
// shared symbol table so later call sites can validate against it.
type funcSig struct {
	Args []types.Type
	Rets []types.Type
}

// Parser holds per-activation state for one translation unit (one source
// file, pre-tokenized), plus references shared across every activation
// spawned to satisfy an `include` in the same compilation (spec §3 Parser
// state, §9 recursive parser composition). Sharing constants/funcs/
// includeHistory by reference rather than copy-then-merge-on-completion is
// a deliberate simplification recorded in DESIGN.md: for an acyclic
// inclusion tree the observable result — one flattened symbol environment
// — is identical, and it sidesteps having to decide a merge order.
type Parser struct {
	tokens   []token.Token
	pos      int
	current  token.Token
	previous token.Token

	file        string
	includeDirs []string

	constants      map[string]int64
	funcs          map[string]funcSig
	includeHistory map[uint64]string // canonical path hash -> canonical path

	sources *diag.SourceSet
	sink    *diag.Sink

	// trace, if set, is called after every op is type-checked with the
	// resulting stack — the driver's `-dump-stack` hook (SPEC_FULL.md §3.3).
	trace func(pos token.Position, stack types.Stack)
}

// SetTrace installs a callback invoked after each op's stack effect is
// applied. Passing nil disables tracing.
func (p *Parser) SetTrace(fn func(pos token.Position, stack types.Stack)) {
	p.trace = fn
}

// New creates the root Parser for a compilation: it lexes source in full
// up front (spec: "first error aborts", so a lex error here is fatal
// before any parsing begins) and seeds fresh, empty shared symbol tables.
func New(file, source string, includeDirs []string, sources *diag.SourceSet, sink *diag.Sink) (*Parser, error) {
	toks, err := lexAll(file, source)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		tokens:         toks,
		file:           file,
		includeDirs:    includeDirs,
		constants:      make(map[string]int64),
		funcs:          make(map[string]funcSig),
		includeHistory: make(map[uint64]string),
		sources:        sources,
		sink:           sink,
	}
	if len(toks) > 0 {
		p.current = toks[0]
	}
	return p, nil
}

// child spawns a nested Parser for an `include`d file, inheriting this
// Parser's shared symbol tables and include machinery (spec §4.3 Include,
// §9).
func (p *Parser) child(file, source string) (*Parser, error) {
	toks, err := lexAll(file, source)
	if err != nil {
		return nil, err
	}
	c := &Parser{
		tokens:         toks,
		file:           file,
		includeDirs:    p.includeDirs,
		constants:      p.constants,
		funcs:          p.funcs,
		includeHistory: p.includeHistory,
		sources:        p.sources,
		sink:           p.sink,
		trace:          p.trace,
	}
	if len(toks) > 0 {
		c.current = toks[0]
	}
	return c, nil
}

func lexAll(file, source string) ([]token.Token, error) {
	lx := lexer.New(file, source)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.previous = p.current
		p.pos++
		p.current = p.tokens[p.pos]
	} else {
		p.previous = p.current
	}
}

func (p *Parser) expect(kind token.Kind, context string) error {
	if p.current.Kind != kind {
		return diag.Errorf(p.current.Pos, "expected %s %s, got %s", kind, context, p.current.Kind)
	}
	p.advance()
	return nil
}
