package constants

// Unit names given to dynamically supplied source text. They show up as the
// filename of parse errors and call-stack frames.
const (
	ScriptUnit     = "<script>"
	ExpressionUnit = "<expr>"
)

// Names the engine binds into every scope unless told otherwise.
const (
	BoxBinding = "Box"
	JSONModule = "json"
	MathModule = "math"
	TimeModule = "time"
	ThreadTask = "taskscript.task" // Starlark thread-local holding the current platform.Task
)
