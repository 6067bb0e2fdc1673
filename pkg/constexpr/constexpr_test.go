package constexpr

import (
	"testing"

	"github.com/vsthijs/tack/pkg/token"
)

// tokenFeed turns a fixed slice of tokens into the peek/next closures Eval
// expects, followed by an EOF sentinel once the slice is exhausted.
func tokenFeed(toks []token.Token) (peek func() token.Token, next func() token.Token) {
	pos := 0
	eof := token.Token{Kind: token.EOF}
	cur := func() token.Token {
		if pos >= len(toks) {
			return eof
		}
		return toks[pos]
	}
	return cur, func() token.Token {
		t := cur()
		pos++
		return t
	}
}

func numTok(lexeme string) token.Token { return token.Token{Kind: token.Number, Lexeme: lexeme} }
func opTok(k token.Kind) token.Token   { return token.Token{Kind: k} }

func TestEvalSimpleArithmetic(t *testing.T) {
	cases := []struct {
		name string
		toks []token.Token
		want int64
	}{
		{"add", []token.Token{numTok("3"), numTok("4"), opTok(token.Plus)}, 7},
		{"sub", []token.Token{numTok("10"), numTok("3"), opTok(token.Minus)}, 7},
		{"mul", []token.Token{numTok("6"), numTok("7"), opTok(token.Star)}, 42},
		{"div", []token.Token{numTok("20"), numTok("4"), opTok(token.Slash)}, 5},
		{"single value", []token.Token{numTok("9")}, 9},
		{"chained rpn", []token.Token{numTok("2"), numTok("3"), opTok(token.Plus), numTok("4"), opTok(token.Star)}, 20},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			peek, next := tokenFeed(c.toks)
			got, err := Eval(token.Position{}, peek, next)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != c.want {
				t.Errorf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	peek, next := tokenFeed([]token.Token{numTok("1"), numTok("0"), opTok(token.Slash)})
	if _, err := Eval(token.Position{}, peek, next); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestEvalEmptyExpression(t *testing.T) {
	peek, next := tokenFeed(nil)
	if _, err := Eval(token.Position{}, peek, next); err == nil {
		t.Fatal("expected an error for an empty constant expression")
	}
}

func TestEvalResidualStack(t *testing.T) {
	peek, next := tokenFeed([]token.Token{numTok("1"), numTok("2")})
	if _, err := Eval(token.Position{}, peek, next); err == nil {
		t.Fatal("expected an error when the expression leaves more than one value")
	}
}

func TestEvalStopsAtUnrecognizedToken(t *testing.T) {
	toks := []token.Token{numTok("5"), {Kind: token.Do}}
	peek, next := tokenFeed(toks)
	got, err := Eval(token.Position{}, peek, next)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	// The 'do' token must remain unconsumed.
	if peek().Kind != token.Do {
		t.Errorf("expected 'do' to remain unconsumed, got %s", peek().Kind)
	}
}
