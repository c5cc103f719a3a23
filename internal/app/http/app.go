package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/middleware"
	httprouters "event_gallery/internal/transport/http"
	"event_gallery/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host string
	Port string
	// DevOrigin enables CORS for a single front-end dev server.
	DevOrigin     string
	BodyLimit     string
	SessionSecret string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	// ImagesDir is served under ImagesURL.
	ImagesDir string
	ImagesURL string
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.JSONSerializer = httprouters.GoJSONSerializer{}
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout
	e.Server.IdleTimeout = opts.IdleTimeout

	s := &Server{
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}

	e.HTTPErrorHandler = s.errorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.PrometheusMetrics)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	if opts.DevOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{opts.DevOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	if opts.BodyLimit != "" {
		e.Use(echomw.BodyLimit(opts.BodyLimit))
	}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(opts.SessionSecret))))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Warn("statsviz start with error", sl.Err(err))
	}
	s.m = mux

	return s
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("start", "server"), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.opts.Host, s.opts.Port)
}

// errorHandler renders every error, including router 404/405s, in the API
// envelope.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := response.MsgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch code {
		case http.StatusNotFound:
			msg = response.MsgNotFound
		case http.StatusMethodNotAllowed:
			msg = response.MsgMethodNotAllowed
		case http.StatusRequestEntityTooLarge:
			msg = response.MsgRequestTooLarge
		case http.StatusBadRequest:
			msg = response.MsgInvalidRequest
		default:
			if m, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
				msg = m
			} else if code < http.StatusInternalServerError {
				msg = http.StatusText(code)
			}
		}
	}

	if code >= http.StatusInternalServerError {
		s.log.Error("unhandled error", slog.String("path", c.Request().URL.Path), sl.Err(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, response.Fail(msg))
	}
	if err != nil {
		s.log.Error("failed to write error response", sl.Err(err))
	}
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	if s.opts.ImagesDir != "" && s.opts.ImagesURL != "" {
		s.e.Static(s.opts.ImagesURL, s.opts.ImagesDir)
	}

	api := s.e.Group("/api/gallery")
	{
		api.GET("/events", s.routers.ListEvents)
		api.POST("/login", s.routers.Login)
		api.POST("/logout", s.routers.Logout)
		api.GET("/me", s.routers.Me)
		api.POST("/view_event", s.routers.ViewEvent)

		// Per-route guards keep unknown /api/gallery paths a 404.
		api.POST("/upload_event", s.routers.UploadEvent, s.adminOnlyMiddleware)
		api.POST("/delete_event", s.routers.DeleteEvent, s.adminOnlyMiddleware)
		api.POST("/delete_photo", s.routers.DeletePhoto, s.adminOnlyMiddleware)
		api.POST("/update_event_meta", s.routers.UpdateEventMeta, s.adminOnlyMiddleware)
		api.POST("/update_photo_order", s.routers.UpdatePhotoOrder, s.adminOnlyMiddleware)
		api.GET("/events/:event_id/stats", s.routers.EventStats, s.adminOnlyMiddleware)
	}
}

func (s *Server) adminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return s.routers.RequireAdmin(next)
}
