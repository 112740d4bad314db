package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/req-consultant/internal/types"
)

// EventType classifies a progress event
type EventType string

// Progress event types emitted during an analysis run
const (
	EventAgentStart        EventType = "agent_start"
	EventAgentComplete     EventType = "agent_complete"
	EventIterationStart    EventType = "iteration_start"
	EventIterationComplete EventType = "iteration_complete"
	EventTokenUsage        EventType = "token_usage"
	EventAnalysisComplete  EventType = "analysis_complete"
	EventError             EventType = "error"
)

// Event is a fire-and-forget progress broadcast. Delivery is best-effort;
// the orchestrator never blocks on or fails from a sink.
type Event struct {
	Type      EventType       `json:"type"`
	Agent     types.AgentRole `json:"agent,omitempty"`
	Iteration int             `json:"iteration,omitempty"`
	Message   string          `json:"message"`
	Data      any             `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Sink receives progress events keyed by requisition ID. Implementations
// must not block; the orchestrator treats a nil sink as a no-op.
type Sink interface {
	Emit(requisitionID uuid.UUID, event Event)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(requisitionID uuid.UUID, event Event)

// Emit calls the function
func (f SinkFunc) Emit(requisitionID uuid.UUID, event Event) {
	f(requisitionID, event)
}
