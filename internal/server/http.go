package server

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/config"
)

// RawMailReader fetches a full raw message by id.
type RawMailReader interface {
	RawMessage(ctx context.Context, messageID string) (*gmail.Message, error)
}

// Server exposes the ad-hoc operator endpoints. It sits outside the core
// pipeline; the only read path is the raw-message lookup.
type Server struct {
	h      *server.Hertz
	logger *zap.Logger
}

// New creates the HTTP server
func New(cfg *config.Config, mail RawMailReader, logger *zap.Logger) *Server {
	h := server.Default(server.WithHostPorts(cfg.GetString("server.listen_address")))
	s := &Server{h: h, logger: logger}

	h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.String(consts.StatusOK, "ok")
	})

	h.GET("/gmail/readMail/:messageId", func(ctx context.Context, c *app.RequestContext) {
		messageID := c.Param("messageId")
		msg, err := mail.RawMessage(ctx, messageID)
		if err != nil {
			logger.Error("Failed to read mail",
				zap.String("message_id", messageID),
				zap.Error(err))
			c.JSON(consts.StatusInternalServerError, map[string]string{"error": "error fetching email"})
			return
		}
		c.JSON(consts.StatusOK, msg)
	})

	return s
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	return s.h.Run()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.h.Shutdown(ctx)
}
