// Package constexpr implements the miniature RPN evaluator used inside
// `const` definitions (spec §4.2).
package constexpr

import (
	"strconv"

	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/token"
)

// Eval consumes tokens through the next/peek callbacks for as long as
// the next token is a number or one of + - * /, evaluating them as an RPN
// expression. It stops as soon as peek() no longer matches that grammar,
// leaving that token unconsumed. The residual evaluation stack must contain
// exactly one value; anything else is a parse error.
//
// next returns the current token and advances; peek returns the current
// token without advancing.
func Eval(startPos token.Position, peek func() token.Token, next func() token.Token) (int64, error) {
	var stack []int64
	consumed := 0

	for {
		tok := peek()
		switch tok.Kind {
		case token.Number:
			next()
			v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
			if err != nil {
				return 0, diag.Errorf(tok.Pos, "invalid integer literal '%s'", tok.Lexeme)
			}
			stack = append(stack, v)
			consumed++
		case token.Plus, token.Minus, token.Star, token.Slash:
			next()
			if len(stack) < 2 {
				return 0, diag.Errorf(tok.Pos, "not enough operands for '%s' in constant expression", tok.Kind)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			var res int64
			switch tok.Kind {
			case token.Plus:
				res = a + b
			case token.Minus:
				res = a - b
			case token.Star:
				res = a * b
			case token.Slash:
				if b == 0 {
					return 0, diag.Errorf(tok.Pos, "division by zero in constant expression")
				}
				res = a / b
			}
			stack = append(stack, res)
			consumed++
		default:
			if consumed == 0 {
				return 0, diag.Errorf(startPos, "empty constant expression")
			}
			if len(stack) != 1 {
				return 0, diag.Errorf(startPos, "constant expression leaves %d values on the stack, expected 1", len(stack))
			}
			return stack[0], nil
		}
	}
}
