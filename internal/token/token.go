package token

// Kind identifies the syntactic role a token played in the front end.
// The engine only uses tokens for declaration identity in diagnostics,
// so the set is coarse.
type Kind int

const (
	IDENT Kind = iota
	TYPE_IDENT
	MACRO_IDENT
	KEYWORD
	LITERAL
	EOF
)

// Token is a source position plus the lexeme that produced a node.
// Front ends that construct AST values directly may leave the zero value;
// diagnostics then omit position info.
type Token struct {
	Kind   Kind
	Lexeme string
	File   string
	Line   int
	Column int
}

func (t Token) IsZero() bool {
	return t.Lexeme == "" && t.Line == 0 && t.Column == 0
}
