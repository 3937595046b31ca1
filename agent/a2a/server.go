package a2a

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

type taskRequest struct {
	Message string `json:"message"`
}

type taskResponse struct {
	Artifact string `json:"artifact,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewHandler serves one agent: its card on the well-known path and
// task submissions on /tasks.
func NewHandler(card Card, agent contractx.Responder) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(WellKnownPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, card)
	})

	r.POST(TasksPath, func(c *gin.Context) {
		var req taskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, taskResponse{Error: err.Error()})
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			c.JSON(http.StatusBadRequest, taskResponse{Error: "message is required"})
			return
		}

		start := time.Now()
		artifact, err := agent.Respond(c.Request.Context(), req.Message)
		if err != nil {
			log.Error().
				Str("agent", card.Name).
				Err(err).
				Msg("task failed")
			c.JSON(http.StatusInternalServerError, taskResponse{Error: err.Error()})
			return
		}
		log.Info().
			Str("agent", card.Name).
			Dur("elapsed", time.Since(start)).
			Msg("task completed")
		c.JSON(http.StatusOK, taskResponse{Artifact: artifact})
	})

	return r
}

// Serve runs one agent endpoint until ctx is cancelled.
func Serve(ctx context.Context, addr string, card Card, agent contractx.Responder) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewHandler(card, agent),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("agent", card.Name).Str("addr", addr).Msg("agent endpoint listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
