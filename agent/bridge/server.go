// Package bridge exposes the operation registry over HTTP: a discovery
// endpoint listing the operations and an invocation endpoint that
// forwards {tool, params} to the registry and returns the envelope.
package bridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/helpmesh/helpmesh/agent/contract"
)

// Operations is what the bridge needs from the registry: the discovery
// list and dispatch. Both come from the same table, so the /tools
// surface cannot drift from what /call accepts.
type Operations interface {
	contractx.Invoker
	Specs() []contractx.ToolSpec
}

// NewHandler builds the bridge's HTTP handler.
func NewHandler(ops Operations) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": ops.Specs()})
	})

	r.POST("/call", func(c *gin.Context) {
		var req contractx.CallRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusInternalServerError, contractx.Fail(err.Error()))
			return
		}
		// Parameter validation lives in the registry and store; the
		// transport passes params through by name. Failure envelopes
		// still travel with a 200: they are results, not transport
		// errors.
		c.JSON(http.StatusOK, ops.Invoke(c.Request.Context(), req.Tool, req.Params))
	})

	return r
}

// Serve runs the bridge until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, ops Operations) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewHandler(ops),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", addr).Msg("tool bridge listening")

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

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("bridge request")
	}
}
