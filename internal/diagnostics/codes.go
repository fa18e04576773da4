package diagnostics

// ErrorCode identifies a diagnostic. Prefix groups by subsystem:
// T = type graph, N = namespace, M = macro expansion, D = dispatch, L = loader.
type ErrorCode string

const (
	// Type graph
	ErrT001 ErrorCode = "T001" // DuplicateName
	ErrT002 ErrorCode = "T002" // UnknownParent
	ErrT003 ErrorCode = "T003" // CyclicAlias
	ErrT004 ErrorCode = "T004" // UnknownType
	ErrT005 ErrorCode = "T005" // AbstractInstantiation
	ErrT006 ErrorCode = "T006" // FieldTypeMismatch
	ErrT007 ErrorCode = "T007" // FieldCountMismatch
	ErrT008 ErrorCode = "T008" // PrimitiveWidthMismatch
	ErrT009 ErrorCode = "T009" // InvalidBitWidth

	// Namespace
	ErrN001 ErrorCode = "N001" // Redeclaration
	ErrN002 ErrorCode = "N002" // UnboundName
	ErrN003 ErrorCode = "N003" // BindAfterClose

	// Macro expansion
	ErrM001 ErrorCode = "M001" // MacroExpansionDivergence
	ErrM002 ErrorCode = "M002" // MacroArityMismatch
	ErrM003 ErrorCode = "M003" // UnknownMacro
	ErrM004 ErrorCode = "M004" // NonIdentifierBinder

	// Dispatch
	ErrD001 ErrorCode = "D001" // UnboundFunction
	ErrD002 ErrorCode = "D002" // NoApplicableMethod
	ErrD003 ErrorCode = "D003" // AmbiguousMethod
	ErrD004 ErrorCode = "D004" // DuplicateMethod

	// Unit loader
	ErrL001 ErrorCode = "L001" // malformed unit document
	ErrL002 ErrorCode = "L002" // unknown declaration kind
	ErrL003 ErrorCode = "L003" // missing required field
)

// messages maps codes to format strings. Arguments to NewError fill the verbs.
var messages = map[ErrorCode]string{
	ErrT001: "duplicate type name '%s'",
	ErrT002: "unknown parent type '%s' for '%s'",
	ErrT003: "cyclic type alias detected at '%s'",
	ErrT004: "unknown type '%s'",
	ErrT005: "cannot instantiate abstract type '%s'",
	ErrT006: "field '%s' of '%s' expects type '%s', got '%s'",
	ErrT007: "type '%s' has %d fields, got %d values",
	ErrT008: "primitive type '%s' expects %d bits, got %d",
	ErrT009: "primitive type '%s' declared with non-positive width %d",

	ErrN001: "redeclaration of '%s' in the same namespace",
	ErrN002: "unbound name '%s'",
	ErrN003: "namespace '%s' is closed; bindings are frozen",

	ErrM001: "macro expansion of '%s' exceeded depth %d; assuming divergence",
	ErrM002: "macro '%s' expects %d arguments, got %d",
	ErrM003: "unknown macro '%s'",
	ErrM004: "macro argument for parameter '%s' must be an identifier; it is used as a binder or callee",

	ErrD001: "'%s' is not bound to a function",
	ErrD002: "no applicable method for '%s' with argument types (%s)",
	ErrD003: "ambiguous call to '%s'; candidates: %s",
	ErrD004: "duplicate method for '%s' with parameter types (%s)",

	ErrL001: "malformed unit document: %s",
	ErrL002: "unknown declaration kind '%s'",
	ErrL003: "declaration '%s' is missing required field '%s'",
}
