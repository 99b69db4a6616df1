package app

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Spok95/school-dashboard/internal/config"
	"github.com/Spok95/school-dashboard/internal/metrics"
)

type Server struct {
	echo *echo.Echo
	cfg  *config.Config
	db   *sql.DB
	log  *zap.SugaredLogger
}

func NewServer(cfg *config.Config, database *sql.DB, log *zap.SugaredLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	s := &Server{echo: e, cfg: cfg, db: database, log: log}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.Use(s.requestMetrics)

	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	authd := api.Group("", s.jwtAuth)
	authd.GET("/me", s.handleMe)

	dash := authd.Group("/dashboard")
	dash.GET("/state", s.handleState)
	dash.GET("/export", s.handleExport)
	dash.POST("/save", s.handleSave, s.requireEdit)
	dash.POST("/lesson/add", s.handleLessonAdd, s.requireEdit)
	dash.POST("/student/add", s.handleStudentAdd, s.requireEdit)
	dash.POST("/clear", s.handleClear, s.requireAdmin)
	dash.POST("/lesson/remove", s.handleLessonRemove, s.requireAdmin)
	dash.POST("/student/remove", s.handleStudentRemove, s.requireAdmin)
}

// Start — неблокирующий запуск; остановка через Shutdown.
func (s *Server) Start(addr string) {
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			s.log.Fatalw("http server", "err", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()
	t0 := time.Now()
	if err := s.db.PingContext(ctx); err != nil {
		return c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
	}
	metrics.ObserveDBPing(time.Since(t0))
	return c.String(http.StatusOK, "ok")
}

func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}
		metrics.HTTPRequests.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}
