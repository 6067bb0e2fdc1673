package lexer

import (
	"testing"

	"github.com/vsthijs/tack/pkg/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	lx := New("test.tack", src)
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "func main int -> do dup swap end")
	got := kinds(toks)
	want := []token.Kind{token.Func, token.Ident, token.Int, token.Arrow, token.Do, token.Dup, token.Swap, token.End, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks := lexAll(t, "<< >> <= >= != ->")
	got := kinds(toks)
	want := []token.Kind{token.Lsh, token.Rsh, token.Lte, token.Gte, token.Neq, token.Arrow, token.EOF}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d: got %s, want %s", i, got[i], k)
		}
	}
}

func TestNumberLiteral(t *testing.T) {
	toks := lexAll(t, "42")
	if toks[0].Kind != token.Number || toks[0].Lexeme != "42" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestStringLiteral(t *testing.T) {
	toks := lexAll(t, `"hello world"`)
	if toks[0].Kind != token.String || toks[0].Lexeme != "hello world" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestUnterminatedString(t *testing.T) {
	lx := New("test.tack", `"unterminated`)
	if _, err := lx.Next(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := lexAll(t, "1 # this is a comment\n2")
	got := kinds(toks)
	want := []token.Kind{token.Number, token.Number, token.EOF}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d: got %s, want %s", i, got[i], k)
		}
	}
}

func TestPositionsTrackLinesAndColumns(t *testing.T) {
	toks := lexAll(t, "1\n  2")
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("first token pos = %+v", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 3 {
		t.Errorf("second token pos = %+v", toks[1].Pos)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	lx := New("test.tack", "@")
	if _, err := lx.Next(); err == nil {
		t.Fatal("expected an error for an unexpected character")
	}
}
