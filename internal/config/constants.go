package config

const UnitFileExt = ".unit.yaml"

// UnitFileExtensions are all recognized declaration-unit file extensions
var UnitFileExtensions = []string{".unit.yaml", ".unit.yml"}

// Distinguished namespace and type names
const (
	RootTypeName      = "Any"
	StdNamespaceName  = "Std"
	CoreNamespaceName = "Core"
)

// MaxExpansionDepth bounds recursive macro expansion. A fragment still
// containing invocation nodes after this many rewrites is divergent.
const MaxExpansionDepth = 64

// Built-in primitive type names bound into Core by default
const (
	IntTypeName   = "Int64"
	FloatTypeName = "Float64"
	BoolTypeName  = "Bool"
)

// Default bit widths for the Core primitives
const (
	IntBitWidth   = 64
	FloatBitWidth = 64
	BoolBitWidth  = 8
)
