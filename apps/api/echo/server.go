package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		Registry    *lifecycle.Registry
		SnapshotSvc *snapshot.Service // nil when no store is configured
		Validate    *validator.Validate
		Translator  ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      echo.MiddlewareFunc
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HideBanner = conf.TestMode

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.jwt = middleware.JWTWithConfig(newJWTConfig(conf))

	api := &lifecycleApi{
		reg:      s.deps.Registry,
		svc:      s.deps.SnapshotSvc,
		validate: s.deps.Validate,
	}
	features := conf.Features
	if api.svc == nil {
		features.Entities = false
	}
	s.register(RouteTable(features), api)
}

func (s *server) handlers(api *lifecycleApi) map[string]echo.HandlerFunc {
	return map[string]echo.HandlerFunc{
		RouteHome:         home,
		RouteHealth:       health,
		RouteProcesses:    api.listProcesses,
		RouteProcess:      api.retrieveProcess,
		RouteProjection:   api.project,
		RouteEntities:     api.listEntities,
		RouteEntity:       api.retrieveEntity,
		RouteEntityAction: api.perform,
	}
}

func (s *server) register(routes []Route, api *lifecycleApi) {
	handlers := s.handlers(api)
	procMw := processMiddleware(s.deps.Registry)

	for _, r := range routes {
		var mws []echo.MiddlewareFunc
		if r.Auth {
			mws = append(mws, s.jwt)
		}
		if r.Process {
			mws = append(mws, procMw)
		}
		s.app.Add(r.Method, r.Path, handlers[r.Name], mws...)
	}
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the EMS Lifecycle API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
