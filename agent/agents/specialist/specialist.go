// Package specialist implements the reasoning agents: a chat model
// given the tool menu decides which bridge operations to invoke for a
// message, the executor runs them, and a second model pass folds the
// textual results into the final reply.
package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
	toolclientx "github.com/helpmesh/helpmesh/agent/toolclient"
)

type Specialist struct {
	agentType    contractx.AgentType
	toolRunner   compose.Runnable[map[string]any, *schema.Message]
	finalRunner  compose.Runnable[map[string]any, *schema.Message]
	executor     toolclientx.Executor
	allowedTools map[string]struct{}
}

var _ contractx.Responder = (*Specialist)(nil)

// toolExchange is one executed tool call as shown to the finalize pass.
type toolExchange struct {
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
	Result string         `json:"result"`
}

func New(
	ctx context.Context,
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
	executor toolclientx.Executor,
) (*Specialist, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}
	toolRunner, err := compileMessageGraph(ctx, toolModel, systemPrompt, string(agentType)+".tool_planning_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
	}
	finalRunner, err := compileMessageGraph(ctx, chatModel, systemPrompt, string(agentType)+".finalize_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile finalize graph: %v", contractx.ErrModelInvoke, err)
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowed[t.Name] = struct{}{}
	}

	return &Specialist{
		agentType:    agentType,
		toolRunner:   toolRunner,
		finalRunner:  finalRunner,
		executor:     executor,
		allowedTools: allowed,
	}, nil
}

// Respond runs one reasoning round: the model either answers directly
// or requests tool calls, which are executed and handed back for the
// final reply. Tool failures arrive as plain text and are left for the
// model to explain; they never abort the round.
func (s *Specialist) Respond(ctx context.Context, message string) (string, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return "", fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}

	msg, err := s.invoke(ctx, s.toolRunner, map[string]any{
		"user_message": text,
	})
	if err != nil {
		return "", err
	}

	if len(msg.ToolCalls) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return "", fmt.Errorf("%w: model returned neither content nor tool calls", contractx.ErrSchemaViolation)
		}
		return content, nil
	}

	exchanges, err := s.runToolCalls(ctx, msg.ToolCalls)
	if err != nil {
		return "", err
	}

	final, err := s.invoke(ctx, s.finalRunner, map[string]any{
		"user_message": text,
		"tool_results": exchanges,
	})
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(final.Content)
	if content == "" {
		return "", fmt.Errorf("%w: finalize pass returned empty reply", contractx.ErrSchemaViolation)
	}
	return content, nil
}

func (s *Specialist) invoke(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	payload map[string]any,
) (*schema.Message, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", contractx.ErrValidation, err)
	}
	msg, err := runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: agent=%s invoke: %v", contractx.ErrModelInvoke, s.agentType, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: agent=%s returned nil message", contractx.ErrSchemaViolation, s.agentType)
	}
	return msg, nil
}

func (s *Specialist) runToolCalls(ctx context.Context, calls []schema.ToolCall) ([]toolExchange, error) {
	exchanges := make([]toolExchange, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		if _, ok := s.allowedTools[tool]; !ok {
			return nil, fmt.Errorf("%w: tool=%s is not allowed for agent=%s", contractx.ErrSchemaViolation, tool, s.agentType)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		result := s.executor(ctx, tool, args)
		log.Debug().
			Str("agent", string(s.agentType)).
			Str("tool", tool).
			Msg("tool call executed")

		exchanges = append(exchanges, toolExchange{
			Tool:   tool,
			Args:   args,
			Result: result,
		})
	}
	return exchanges, nil
}
