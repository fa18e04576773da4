package ast

import (
	"github.com/funvibe/vega/internal/token"
)

// Identifier represents a name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral represents an integer literal. Evaluation is the external
// evaluator's business; the engine only carries the value through.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// FloatLiteral represents a floating point literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

// StringLiteral represents a string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// CallExpr represents an ordinary function call. The callee is resolved by
// the dispatcher on demand, never during expansion.
type CallExpr struct {
	Token    token.Token // The '(' token
	Function *Identifier
	Args     []Expression
}

func (ce *CallExpr) expressionNode()      {}
func (ce *CallExpr) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpr) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// MacroInvocation is a macro call site. It is rewritten away by the
// expander before any binding or type resolution occurs. It is legal both
// as an expression and as a top-level declaration.
type MacroInvocation struct {
	Token token.Token // The macro identifier token
	Name  *Identifier
	Args  []Expression
}

func (mi *MacroInvocation) expressionNode()      {}
func (mi *MacroInvocation) statementNode()       {}
func (mi *MacroInvocation) TokenLiteral() string { return mi.Token.Lexeme }
func (mi *MacroInvocation) GetToken() token.Token {
	if mi == nil {
		return token.Token{}
	}
	return mi.Token
}

// LetExpr binds a name to a value over a body expression. It is the only
// binding form the engine needs to know about: macro hygiene renames
// let-bound names introduced by a template.
type LetExpr struct {
	Token token.Token // The 'let' token
	Name  *Identifier
	Value Expression
	Body  Expression
}

func (le *LetExpr) expressionNode()      {}
func (le *LetExpr) TokenLiteral() string { return le.Token.Lexeme }
func (le *LetExpr) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}

// BlockExpr is a sequence of expressions evaluated left to right; the value
// is the last expression's value. Macro bodies commonly expand to blocks.
type BlockExpr struct {
	Token token.Token // The 'begin' or '{' token
	Exprs []Expression
}

func (be *BlockExpr) expressionNode()      {}
func (be *BlockExpr) TokenLiteral() string { return be.Token.Lexeme }
func (be *BlockExpr) GetToken() token.Token {
	if be == nil {
		return token.Token{}
	}
	return be.Token
}
