package contract

import "context"

// Responder is anything that can turn a free-text message into a
// free-text reply: a local reasoning agent, a remote agent behind the
// a2a transport, or a scripted stand-in in tests.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Invoker dispatches a named operation with named parameters and
// never fails as a Go error; every outcome is an Envelope.
type Invoker interface {
	Invoke(ctx context.Context, tool string, params map[string]any) Envelope
}
