// Package api provides the HTTP REST API and WebSocket server for the
// facility map.
//
// It exposes authentication, floor listing, map-session operations,
// room preferences, and the mock booking passthrough to the browser
// viewer. Real-time surface operations and room events flow to
// connected viewers over the WebSocket hub.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lastlock/lockmap-core/internal/audit"
	"github.com/lastlock/lockmap-core/internal/auth"
	"github.com/lastlock/lockmap-core/internal/booking"
	"github.com/lastlock/lockmap-core/internal/floorplan"
	"github.com/lastlock/lockmap-core/internal/infrastructure/config"
	"github.com/lastlock/lockmap-core/internal/infrastructure/logging"
	"github.com/lastlock/lockmap-core/internal/lockactivity"
	"github.com/lastlock/lockmap-core/internal/mapsession"
	"github.com/lastlock/lockmap-core/internal/prefs"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Map      config.MapConfig
	Logger   *logging.Logger
	Catalog  *floorplan.Catalog
	Gate     *auth.Gate
	Prefs    *prefs.Service
	Audit    audit.Repository
	Activity *lockactivity.Dataset
	Classify mapsession.Classifier
	Mock     *booking.MockTransport
	Version  string
}

// Server is the HTTP API server for the facility map.
//
// It manages the HTTP listener, routes, middleware, the WebSocket hub
// and the shared map session the hub's viewers observe.
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	secCfg    config.SecurityConfig
	mapCfg    config.MapConfig
	logger    *logging.Logger
	catalog   *floorplan.Catalog
	gate      *auth.Gate
	prefs     *prefs.Service
	auditRepo audit.Repository
	activity  *lockactivity.Dataset
	classify  mapsession.Classifier
	mock      *booking.MockTransport
	version   string

	server  *http.Server
	hub     *Hub
	surface *wsSurface
	session *mapsession.Session
	tickets *ticketStore
	cancel  context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("floor catalog is required")
	}
	if deps.Gate == nil {
		return nil, fmt.Errorf("identity gate is required")
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		secCfg:    deps.Security,
		mapCfg:    deps.Map,
		logger:    deps.Logger,
		catalog:   deps.Catalog,
		gate:      deps.Gate,
		prefs:     deps.Prefs,
		auditRepo: deps.Audit,
		activity:  deps.Activity,
		classify:  deps.Classify,
		mock:      deps.Mock,
		version:   deps.Version,
		tickets:   newTicketStore(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It creates the WebSocket hub, the hub-backed map surface and the
// shared map session, then launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.surface = newWSSurface(s.hub, s.mapCfg.WorldView.Zoom)
	s.session = mapsession.New(s.surface, s.hub, s.activity, s.classify, s.mapCfg, s.logger)

	go s.cleanTicketsLoop(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.session != nil {
		s.session.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
