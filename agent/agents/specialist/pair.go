package specialist

import (
	"context"
	"fmt"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
	llmx "github.com/helpmesh/helpmesh/agent/llm"
	promptx "github.com/helpmesh/helpmesh/agent/prompt"
	toolclientx "github.com/helpmesh/helpmesh/agent/toolclient"
)

// NewPair builds the two live specialists, one model per role, both
// sharing the same tool catalog over the bridge client.
func NewPair(ctx context.Context, cfg llmx.Config, client *toolclientx.Client) (data, support *Specialist, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	prompts := promptx.LoadPromptSet()
	infos, executor := toolclientx.BuildCatalog(client)

	dataModelCfg := cfg.OpenRouterFor(contractx.AgentTypeData)
	dataModel, err := dataModelCfg.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create data agent model: %v", contractx.ErrModelInvoke, err)
	}
	supportModelCfg := cfg.OpenRouterFor(contractx.AgentTypeSupport)
	supportModel, err := supportModelCfg.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create support agent model: %v", contractx.ErrModelInvoke, err)
	}

	data, err = New(ctx, contractx.AgentTypeData, dataModel, prompts.Data, infos, executor)
	if err != nil {
		return nil, nil, err
	}
	support, err = New(ctx, contractx.AgentTypeSupport, supportModel, prompts.Support, infos, executor)
	if err != nil {
		return nil, nil, err
	}
	return data, support, nil
}
