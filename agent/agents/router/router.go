// Package router runs a customer query through a fixed ordered list
// of specialist stages. There is no branching and no intent
// classification: every query visits every stage, and each stage sees
// what the stages before it said.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

// Stage is one step of the pipeline.
type Stage struct {
	Name  string
	Agent contractx.Responder
}

// Pipeline is itself a Responder, so it can sit behind an agent
// endpoint like any specialist.
type Pipeline struct {
	stages []Stage
}

var _ contractx.Responder = (*Pipeline)(nil)

// New builds a pipeline from stages, run in the given order.
func New(stages ...Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: at least one stage is required", contractx.ErrValidation)
	}
	for _, st := range stages {
		if strings.TrimSpace(st.Name) == "" {
			return nil, fmt.Errorf("%w: stage name is required", contractx.ErrValidation)
		}
		if st.Agent == nil {
			return nil, fmt.Errorf("%w: stage %s has no agent", contractx.ErrValidation, st.Name)
		}
	}
	return &Pipeline{stages: stages}, nil
}

// NewDefault wires the standard two-stage sequence: the data agent
// first, then the support agent with the data agent's reply in hand.
func NewDefault(data, support contractx.Responder) (*Pipeline, error) {
	return New(
		Stage{Name: "data", Agent: data},
		Stage{Name: "support", Agent: support},
	)
}

// Respond runs every stage in order and returns the last stage's
// reply. A stage failure becomes part of the transcript as text, so
// later stages can explain it instead of the whole query dying.
func (p *Pipeline) Respond(ctx context.Context, message string) (string, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return "", fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}

	transcript := make([]string, 0, len(p.stages))
	var last string
	for _, st := range p.stages {
		input := stageInput(text, transcript)
		reply, err := st.Agent.Respond(ctx, input)
		if err != nil {
			reply = fmt.Sprintf("%s stage failed: %v", st.Name, err)
			log.Warn().
				Str("stage", st.Name).
				Err(err).
				Msg("pipeline stage failed")
		} else {
			log.Debug().
				Str("stage", st.Name).
				Msg("pipeline stage completed")
		}
		transcript = append(transcript, fmt.Sprintf("[%s] %s", st.Name, reply))
		last = reply
	}
	return last, nil
}

// stageInput is the original query plus what earlier stages said.
func stageInput(message string, transcript []string) string {
	if len(transcript) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\nEarlier agent replies:\n")
	for _, entry := range transcript {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
