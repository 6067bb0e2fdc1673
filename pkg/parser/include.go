package parser

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/token"
)

// parseInclude handles `include "PATH"` (spec §4.3 Include, §9). It
// resolves PATH, canonicalizes it, skips (with a shadow-include warning)
// anything already included anywhere in this compilation, and otherwise
// delegates to a nested Parser whose declarations flow back into the
// caller's Program.
func (p *Parser) parseInclude() (*ast.Program, error) {
	pos := p.current.Pos
	p.advance() // 'include'

	if p.current.Kind != token.String {
		return nil, diag.Errorf(p.current.Pos, "expected a string literal path after 'include', got %s", p.current.Kind)
	}
	raw := p.current.Lexeme
	p.advance()

	resolved, err := p.resolveInclude(raw, pos)
	if err != nil {
		return nil, err
	}

	canon, err := canonicalizePath(resolved)
	if err != nil {
		return nil, diag.Errorf(pos, "cannot canonicalize include %q: %v", raw, err)
	}

	h := xxhash.Sum64String(canon)
	if prior, seen := p.includeHistory[h]; seen {
		if p.sink != nil {
			p.sink.Warn(pos, "shadow-include", "include %q resolves to a path already included (as %q); skipping", raw, prior)
		}
		return nil, nil
	}
	p.includeHistory[h] = canon

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, diag.Errorf(pos, "cannot read include %q: %v", raw, err)
	}
	content := string(data)
	if p.sources != nil {
		p.sources.Add(resolved, content)
	}

	child, err := p.child(resolved, content)
	if err != nil {
		return nil, err
	}
	return child.ParseProgram()
}

// resolveInclude tries the literal path first, then each configured
// include directory in order (spec §4.3 Include).
func (p *Parser) resolveInclude(raw string, pos token.Position) (string, error) {
	if _, err := os.Stat(raw); err == nil {
		return raw, nil
	}
	for _, dir := range p.includeDirs {
		candidate := filepath.Join(dir, raw)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", diag.Errorf(pos, "cannot resolve include %q (tried literal path and %d include director%s)",
		raw, len(p.includeDirs), plural(len(p.includeDirs)))
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// canonicalizePath resolves symlinks and makes the path absolute, so the
// same file reached via two different spellings dedupes correctly (spec
// §9 Cyclic imports).
func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}
