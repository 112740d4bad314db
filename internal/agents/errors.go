package agents

import (
	"fmt"

	"github.com/jonathan/req-consultant/internal/types"
)

// ExecutionError indicates that a specific agent's call failed, whether from
// a provider error, a timeout, or a malformed response. It aborts the
// current round; there is no retry at this layer.
type ExecutionError struct {
	Role  types.AgentRole
	Cause error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s agent execution failed: %v", e.Role, e.Cause)
	}
	return fmt.Sprintf("%s agent execution failed", e.Role)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
