package ast

import (
	"github.com/funvibe/vega/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a declaration or statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Unit is the root node of a declaration unit handed to the engine by a
// front end. Declarations are processed strictly in order.
type Unit struct {
	File         string // Source file path
	Declarations []Statement
}

func (u *Unit) TokenLiteral() string {
	if len(u.Declarations) > 0 {
		return u.Declarations[0].TokenLiteral()
	}
	return ""
}

// TypeName is a reference to a type by name, resolved against the enclosing
// namespace at registration time (never during macro expansion).
type TypeName struct {
	Token token.Token
	Value string
}

func (tn *TypeName) TokenLiteral() string { return tn.Token.Lexeme }
func (tn *TypeName) GetToken() token.Token {
	if tn == nil {
		return token.Token{}
	}
	return tn.Token
}

// ModuleDecl represents a nested namespace block.
// Bare modules forgo automatic visibility of the standard namespace.
type ModuleDecl struct {
	Token token.Token // The 'module' or 'baremodule' token
	Name  *Identifier
	Bare  bool
	Body  []Statement
}

func (md *ModuleDecl) statementNode()       {}
func (md *ModuleDecl) TokenLiteral() string { return md.Token.Lexeme }
func (md *ModuleDecl) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// AbstractTypeDecl declares a non-instantiable type that only anchors
// subtype relations. A nil Parent means the distinguished root.
type AbstractTypeDecl struct {
	Token  token.Token
	Name   *Identifier
	Parent *TypeName // Optional; defaults to the root type
}

func (ad *AbstractTypeDecl) statementNode()       {}
func (ad *AbstractTypeDecl) TokenLiteral() string { return ad.Token.Lexeme }
func (ad *AbstractTypeDecl) GetToken() token.Token {
	if ad == nil {
		return token.Token{}
	}
	return ad.Token
}

// FieldDecl is one (name, type) pair of a ConcreteTypeDecl.
// Fields are strictly local to the declaring type; there is no field inheritance.
type FieldDecl struct {
	Token token.Token
	Name  *Identifier
	Type  *TypeName
}

func (fd *FieldDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// ConcreteTypeDecl declares an instantiable record type.
type ConcreteTypeDecl struct {
	Token  token.Token
	Name   *Identifier
	Parent *TypeName // Optional; defaults to the root type
	Fields []*FieldDecl
}

func (cd *ConcreteTypeDecl) statementNode()       {}
func (cd *ConcreteTypeDecl) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ConcreteTypeDecl) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}

// PrimitiveTypeDecl declares an instantiable opaque fixed-size value type.
type PrimitiveTypeDecl struct {
	Token    token.Token
	Name     *Identifier
	Parent   *TypeName // Optional; defaults to the root type
	BitWidth int       // Positive
}

func (pd *PrimitiveTypeDecl) statementNode()       {}
func (pd *PrimitiveTypeDecl) TokenLiteral() string { return pd.Token.Lexeme }
func (pd *PrimitiveTypeDecl) GetToken() token.Token {
	if pd == nil {
		return token.Token{}
	}
	return pd.Token
}

// AliasDecl declares a transparent name for another type. Aliases are not
// nodes in the subtype graph; they resolve transitively before any graph
// operation.
type AliasDecl struct {
	Token  token.Token
	Name   *Identifier
	Target *TypeName
}

func (ad *AliasDecl) statementNode()       {}
func (ad *AliasDecl) TokenLiteral() string { return ad.Token.Lexeme }
func (ad *AliasDecl) GetToken() token.Token {
	if ad == nil {
		return token.Token{}
	}
	return ad.Token
}

// ParamDecl is one (name, type) pair of a FunctionDecl signature.
type ParamDecl struct {
	Token token.Token
	Name  *Identifier
	Type  *TypeName
}

func (pd *ParamDecl) GetToken() token.Token {
	if pd == nil {
		return token.Token{}
	}
	return pd.Token
}

// FunctionDecl adds one method to the function of the same name.
// Repeated declarations with distinct parameter types extend the method set.
type FunctionDecl struct {
	Token  token.Token
	Name   *Identifier
	Params []*ParamDecl
	Body   Expression
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDecl) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// MacroDecl declares a pure syntax transformer. The body template is an
// ordinary expression tree; parameter names mark its holes.
type MacroDecl struct {
	Token  token.Token
	Name   *Identifier
	Params []*Identifier
	Body   Expression
}

func (md *MacroDecl) statementNode()       {}
func (md *MacroDecl) TokenLiteral() string { return md.Token.Lexeme }
func (md *MacroDecl) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// ConstantDecl binds a name to a value expression. The expression is opaque
// to the engine; it is handed to the external evaluator unchanged (after
// macro expansion).
type ConstantDecl struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (cd *ConstantDecl) statementNode()       {}
func (cd *ConstantDecl) TokenLiteral() string { return cd.Token.Lexeme }
func (cd *ConstantDecl) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}

// ExpressionStatement is a statement that consists of a single expression,
// e.g. a top-level macro invocation or call.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
