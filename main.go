package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	a2ax "github.com/helpmesh/helpmesh/agent/a2a"
	routerx "github.com/helpmesh/helpmesh/agent/agents/router"
	specialistx "github.com/helpmesh/helpmesh/agent/agents/specialist"
	bridgex "github.com/helpmesh/helpmesh/agent/bridge"
	contractx "github.com/helpmesh/helpmesh/agent/contract"
	llmx "github.com/helpmesh/helpmesh/agent/llm"
	registryx "github.com/helpmesh/helpmesh/agent/registry"
	storex "github.com/helpmesh/helpmesh/agent/store"
	toolclientx "github.com/helpmesh/helpmesh/agent/toolclient"
	configx "github.com/helpmesh/helpmesh/pkg/config"
	_ "github.com/helpmesh/helpmesh/pkg/logger/autoload"
	openrouterx "github.com/helpmesh/helpmesh/pkg/openrouter"
)

type AppConfig struct {
	DatabaseDSN string `envconfig:"DATABASE_DSN" split_words:"true" default:"helpmesh.db"`

	BridgeAddr string `envconfig:"BRIDGE_ADDR" split_words:"true" default:":8000"`
	BridgeURL  string `envconfig:"BRIDGE_URL" split_words:"true" default:"http://127.0.0.1:8000"`

	DataAgentAddr    string `envconfig:"DATA_AGENT_ADDR" split_words:"true" default:":9300"`
	DataAgentURL     string `envconfig:"DATA_AGENT_URL" split_words:"true" default:"http://127.0.0.1:9300"`
	SupportAgentAddr string `envconfig:"SUPPORT_AGENT_ADDR" split_words:"true" default:":9301"`
	SupportAgentURL  string `envconfig:"SUPPORT_AGENT_URL" split_words:"true" default:"http://127.0.0.1:9301"`
	RouterAddr       string `envconfig:"ROUTER_ADDR" split_words:"true" default:":9400"`
	RouterURL        string `envconfig:"ROUTER_URL" split_words:"true" default:"http://127.0.0.1:9400"`

	Preflight bool `envconfig:"PREFLIGHT" split_words:"true" default:"false"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	if appCfg.Preflight {
		client := openrouterx.NewClient(llmCfg.OpenRouterFor(contractx.AgentTypeData))
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := openrouterx.Ping(pingCtx, client); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("openrouter preflight failed")
		}
		cancel()
		log.Info().Msg("openrouter preflight ok")
	}

	st, err := storex.New(appCfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	if err := st.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed store")
	}
	log.Info().Str("dsn", appCfg.DatabaseDSN).Msg("store seeded")

	reg := registryx.New(st)

	errCh := make(chan error, 4)
	go func() {
		errCh <- bridgex.Serve(ctx, appCfg.BridgeAddr, reg)
	}()

	toolClient := toolclientx.MustNew(toolclientx.Config{URL: appCfg.BridgeURL})

	data, support, err := specialistx.NewPair(ctx, *llmCfg, toolClient)
	if err != nil {
		log.Fatal().Err(err).Msg("build specialists")
	}

	go func() {
		errCh <- a2ax.Serve(ctx, appCfg.DataAgentAddr, a2ax.DataAgentCard(appCfg.DataAgentURL), data)
	}()
	go func() {
		errCh <- a2ax.Serve(ctx, appCfg.SupportAgentAddr, a2ax.SupportAgentCard(appCfg.SupportAgentURL), support)
	}()

	// The router reaches the specialists over their endpoints, not
	// in-process, so remote deployments behave the same as this demo.
	dataRemote := a2ax.MustNewClient(a2ax.ClientConfig{URL: appCfg.DataAgentURL})
	supportRemote := a2ax.MustNewClient(a2ax.ClientConfig{URL: appCfg.SupportAgentURL})
	pipeline, err := routerx.NewDefault(dataRemote, supportRemote)
	if err != nil {
		log.Fatal().Err(err).Msg("build router pipeline")
	}
	go func() {
		errCh <- a2ax.Serve(ctx, appCfg.RouterAddr, a2ax.RouterAgentCard(appCfg.RouterURL), pipeline)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server exited")
		}
		stop()
	}

	// Give the remaining servers a moment to drain.
	time.Sleep(200 * time.Millisecond)
}
