package trigger

import "github.com/google/uuid"

// ExecutionContext describes a single invocation of the function.
type ExecutionContext struct {
	InvocationID         uuid.UUID
	FunctionName         string
	FunctionAppDirectory string
}

// NewExecutionContext creates the context for a new invocation with a fresh ID.
func NewExecutionContext(functionName, appDir string) ExecutionContext {
	return ExecutionContext{
		InvocationID:         uuid.New(),
		FunctionName:         functionName,
		FunctionAppDirectory: appDir,
	}
}
