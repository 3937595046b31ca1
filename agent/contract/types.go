package contract

type AgentType string

const (
	AgentTypeData    AgentType = "data"
	AgentTypeSupport AgentType = "support"
	AgentTypeRouter  AgentType = "router"
)

// Envelope is the uniform result wrapper returned by every registry
// operation and by the tool bridge. Exactly one of Data or Error is
// meaningful depending on Success.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKCount(data any, count int) Envelope {
	return Envelope{Success: true, Data: data, Count: &count}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// CallRequest is the wire shape accepted by the bridge's invocation
// endpoint.
type CallRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// ToolSpec describes one operation on the bridge's discovery surface.
// Parameters maps parameter name to an informal type string.
type ToolSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}
