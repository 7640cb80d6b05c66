package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/sandevgo/kalevalagpt/internal/core"
	"github.com/sandevgo/kalevalagpt/pkg/log"
)

const (
	ChatPath    = "/api/chat"
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"

	invalidRequestAnswer = "Error: invalid request"
	shutdownTimeout      = 5 * time.Second
)

// ChatHandler answers one chat request. A non-nil error means the response is a
// fallback and must be served with a failure status.
type ChatHandler interface {
	HandleChat(ctx context.Context, req core.RetrievalRequest) (core.RetrievalResponse, error)
}

// Server exposes the gateway over HTTP.
type Server struct {
	addr    string
	echo    *echo.Echo
	chat    ChatHandler
	metrics *Metrics
	logger  zerolog.Logger
}

func NewServer(ctx context.Context, addr string, chat ChatHandler, metrics *Metrics) *Server {
	s := &Server{
		addr:    addr,
		echo:    echo.New(),
		chat:    chat,
		metrics: metrics,
		logger:  *log.FromCtx(ctx),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	s.echo.Use(s.requestLogger())

	s.echo.POST(ChatPath, s.handleChat)
	s.echo.GET(HealthPath, s.handleHealth)
	s.echo.GET(MetricsPath, echo.WrapHandler(metrics.Handler()))

	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("addr", s.addr).Msgf("%s gateway listening", core.ServiceName)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// ctx is usually already cancelled here; give in-flight requests a grace period.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) handleChat(c echo.Context) error {
	var req core.RetrievalRequest
	if err := c.Bind(&req); err != nil {
		code := http.StatusBadRequest
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		s.logger.Warn().Err(err).Msg("rejected malformed chat request")
		s.metrics.countRequest(code)
		return c.JSON(code, core.RetrievalResponse{Answer: invalidRequestAnswer})
	}

	ctx := s.logger.WithContext(c.Request().Context())
	resp, err := s.chat.HandleChat(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Msg("chat request failed")
		s.metrics.countRequest(http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, resp)
	}

	s.metrics.countRequest(http.StatusOK)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.logger.Debug()
			if v.Error != nil {
				ev = s.logger.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("http request")
			return nil
		},
	})
}
