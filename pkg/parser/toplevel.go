package parser

import (
	"strconv"

	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/constexpr"
	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/token"
	"github.com/vsthijs/tack/pkg/types"
)

// ParseProgram runs the top-level loop (spec §4.3): repeatedly consume one
// of const/func/include until EOF, flattening every included translation
// unit's declarations into the result in source order.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.current.Kind != token.EOF {
		switch p.current.Kind {
		case token.Const:
			cd, err := p.parseConst()
			if err != nil {
				return nil, err
			}
			prog.Consts = append(prog.Consts, cd)
		case token.Func:
			fd, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			prog.Funcs = append(prog.Funcs, fd)
		case token.Include:
			inc, err := p.parseInclude()
			if err != nil {
				return nil, err
			}
			if inc != nil {
				prog.Consts = append(prog.Consts, inc.Consts...)
				prog.Funcs = append(prog.Funcs, inc.Funcs...)
			}
		default:
			return nil, diag.Errorf(p.current.Pos, "unexpected %s at top level, expected 'const', 'func', or 'include'", p.current.Kind)
		}
	}
	return prog, nil
}

// parseConst handles `const NAME <const-expr>` (spec §4.3 Const).
func (p *Parser) parseConst() (ast.ConstDef, error) {
	pos := p.current.Pos
	p.advance() // 'const'

	if p.current.Kind != token.Ident {
		return ast.ConstDef{}, diag.Errorf(p.current.Pos, "expected an identifier after 'const', got %s", p.current.Kind)
	}
	name := p.current.Lexeme
	p.advance()

	val, err := constexpr.Eval(pos, func() token.Token { return p.current }, func() token.Token {
		t := p.current
		p.advance()
		return t
	})
	if err != nil {
		return ast.ConstDef{}, err
	}

	p.constants[name] = val
	return ast.ConstDef{Name: name, Value: val, Pos: pos}, nil
}

// parseFunc handles `func NAME TYPE* -> TYPE* (do OP* end | extern)`
// (spec §4.3 Func), including the fused symbolic execution of the body.
func (p *Parser) parseFunc() (ast.FuncDef, error) {
	pos := p.current.Pos
	p.advance() // 'func'

	if p.current.Kind != token.Ident {
		return ast.FuncDef{}, diag.Errorf(p.current.Pos, "expected a function name after 'func', got %s", p.current.Kind)
	}
	name := p.current.Lexeme
	p.advance()

	args := p.parseTypeList()
	if err := p.expect(token.Arrow, "between argument and return types"); err != nil {
		return ast.FuncDef{}, err
	}
	rets := p.parseTypeList()

	if len(rets) > 1 {
		return ast.FuncDef{}, diag.Errorf(pos, "function %q declares %d return types, Tack allows at most one (spec §I7, non-goal: multi-return)", name, len(rets))
	}

	// Registered before the body is parsed so a function can call itself.
	p.funcs[name] = funcSig{Args: args, Rets: rets}

	if p.current.Kind == token.Extern {
		p.advance()
		return ast.FuncDef{Name: name, Args: args, Rets: rets, Extern: true, Pos: pos}, nil
	}

	if err := p.expect(token.Do, "to open the function body (or 'extern')"); err != nil {
		return ast.FuncDef{}, err
	}

	body, finalStack, term, err := p.parseBlock(types.Stack(args))
	if err != nil {
		return ast.FuncDef{}, err
	}
	if term != token.End {
		return ast.FuncDef{}, diag.Errorf(pos, "function %q body must close with 'end'", name)
	}
	if !types.Equal(finalStack, types.Stack(rets)) {
		return ast.FuncDef{}, diag.Errorf(pos, "function %q: residual stack %s does not match declared return types %s",
			name, finalStack, types.Stack(rets))
	}

	return ast.FuncDef{Name: name, Args: args, Rets: rets, Body: body, Pos: pos}, nil
}

// parseTypeList consumes a run of type names (bare identifiers or the
// int/bool/ptr/long/str keywords), used for both the arg list (before
// '->') and the ret list (before 'do'/'extern'). Per spec §4.3 Func, no
// validation that a name is a known primitive happens here.
func (p *Parser) parseTypeList() []types.Type {
	var out []types.Type
	for {
		switch p.current.Kind {
		case token.Ident, token.Int, token.Bool, token.Ptr, token.Long, token.Str:
			out = append(out, types.Type(p.current.Lexeme))
			p.advance()
		default:
			return out
		}
	}
}

// parseBlock consumes ops until it hits 'end', 'else', or an unexpected
// EOF, threading the type stack through each op (spec §4.3 Body parsing).
// It returns the ops parsed, the stack after the last op, and which
// terminator was found.
func (p *Parser) parseBlock(stack types.Stack) ([]ast.Op, types.Stack, token.Kind, error) {
	var ops []ast.Op
	for {
		switch p.current.Kind {
		case token.End, token.Else:
			term := p.current.Kind
			p.advance()
			return ops, stack, term, nil
		case token.EOF:
			return nil, nil, 0, diag.Errorf(p.current.Pos, "unexpected end of file, expected 'end'")
		default:
			op, newStack, err := p.parseOp(stack)
			if err != nil {
				return nil, nil, 0, err
			}
			ops = append(ops, op)
			stack = newStack
			if p.trace != nil {
				p.trace(op.Pos, stack)
			}
		}
	}
}

// parseOp dispatches a single body token to its op kind and runs the
// corresponding validate_stack step (spec §4.3 Body parsing).
func (p *Parser) parseOp(stack types.Stack) (ast.Op, types.Stack, error) {
	tok := p.current

	if sig, ok := types.IntrinsicByLexeme(tok.Kind); ok {
		p.advance()
		newStack, _, err := types.Apply(stack, sig)
		if err != nil {
			return ast.Op{}, nil, diag.Errorf(tok.Pos, "%v", err)
		}
		return ast.Op{Data: ast.IntrinsicOp{Kind: sig.Kind, Sig: sig}, Pos: tok.Pos}, newStack, nil
	}

	switch tok.Kind {
	case token.Number:
		p.advance()
		v, convErr := strconv.ParseInt(tok.Lexeme, 10, 64)
		if convErr != nil {
			return ast.Op{}, nil, diag.Errorf(tok.Pos, "invalid integer literal %q", tok.Lexeme)
		}
		return ast.Op{Data: ast.PushInt{Value: v}, Pos: tok.Pos}, append(stack.Clone(), types.Int), nil

	case token.String:
		p.advance()
		return ast.Op{Data: ast.PushStr{Value: tok.Lexeme}, Pos: tok.Pos}, append(stack.Clone(), types.Ptr), nil

	case token.If:
		p.advance()
		return p.parseConditional(tok.Pos, stack)

	case token.Ident:
		p.advance()
		if val, ok := p.constants[tok.Lexeme]; ok {
			return ast.Op{Data: ast.PushInt{Value: val}, Pos: tok.Pos}, append(stack.Clone(), types.Int), nil
		}
		if fs, ok := p.funcs[tok.Lexeme]; ok {
			newStack, _, err := types.Apply(stack, types.Signature{Args: fs.Args, Rets: fs.Rets})
			if err != nil {
				return ast.Op{}, nil, diag.Errorf(tok.Pos, "call to %q: %v", tok.Lexeme, err)
			}
			return ast.Op{Data: ast.FunctionCall{Name: tok.Lexeme, Args: fs.Args, Rets: fs.Rets}, Pos: tok.Pos}, newStack, nil
		}
		return ast.Op{}, nil, diag.Errorf(tok.Pos, "undefined identifier %q (not an intrinsic, constant, or function)", tok.Lexeme)

	default:
		return ast.Op{}, nil, diag.Errorf(tok.Pos, "unexpected %s inside function body", tok.Kind)
	}
}

// parseConditional handles `if THEN [else ELSE] end` (spec §4.3 Body
// parsing, `if` case; invariants I4/I5).
func (p *Parser) parseConditional(ifPos token.Position, stack types.Stack) (ast.Op, types.Stack, error) {
	if len(stack) == 0 || types.Canonical(stack[len(stack)-1]) != types.Bool {
		got := types.Type("<empty stack>")
		if len(stack) > 0 {
			got = stack[len(stack)-1]
		}
		return ast.Op{}, nil, diag.Errorf(ifPos, "'if' requires a bool on top of the stack, got %s", got)
	}
	s0 := stack[:len(stack)-1].Clone()

	thenOps, stThen, term, err := p.parseBlock(s0.Clone())
	if err != nil {
		return ast.Op{}, nil, err
	}

	if term == token.End {
		if !types.Equal(stThen, s0) {
			return ast.Op{}, nil, diag.Errorf(ifPos,
				"'if' without 'else' must leave the stack unchanged: entry %s, exit %s (spec I5)", s0, stThen)
		}
		return ast.Op{Data: ast.Conditional{ThenOps: thenOps}, Pos: ifPos}, stThen, nil
	}

	elseOps, stElse, term2, err := p.parseBlock(s0.Clone())
	if err != nil {
		return ast.Op{}, nil, err
	}
	if term2 != token.End {
		return ast.Op{}, nil, diag.Errorf(ifPos, "expected 'end' after 'else' block")
	}
	if !types.Equal(stThen, stElse) {
		return ast.Op{}, nil, diag.Errorf(ifPos,
			"'if'/'else' branches leave different stacks: then %s, else %s (spec I4)", stThen, stElse)
	}
	return ast.Op{Data: ast.Conditional{ThenOps: thenOps, ElseOps: elseOps}, Pos: ifPos}, stElse, nil
}
