package server

import (
	"context"
	"log/slog"
	"net/http"

	appblogs "github.com/preston-bernstein/cricket-live-service/internal/app/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/app/live"
	appmatches "github.com/preston-bernstein/cricket-live-service/internal/app/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/cache"
	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	httpserver "github.com/preston-bernstein/cricket-live-service/internal/http"
	"github.com/preston-bernstein/cricket-live-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/poller"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
	"github.com/preston-bernstein/cricket-live-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	gate          *gate.Gate
	live          *live.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	commentary    commentaryCloser
	publisher     *cache.Publisher
	metricsStop   func(context.Context) error
}

// New constructs a server talking to the configured cricket API.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.CricketProvider) *Server {
	return newServerWithMetrics(cfg, logger, provider, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, provider providers.CricketProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newProviderFactory(logger, recorder)
	if provider == nil {
		provider = factory.build(cfg)
	} else {
		provider = factory.wrap(cfg, provider)
	}

	memoryStore := store.NewMemoryStore()
	g := gate.New(logger, recorder)
	// The commentary set registers its halt hook first so it stops before the match cadence.
	commentary := poller.NewCommentarySet(provider, g, memoryStore, logger, recorder, cfg.CricAPI.CommentaryInterval)
	commentary.RequireLive(memoryStore.IsLive)

	snaps := buildSnapshots(cfg)
	publisher := buildPublisher(cfg, logger)
	opts := poller.MatchOptions{
		Interval:   cfg.CricAPI.MatchInterval,
		RetryDelay: cfg.CricAPI.RetryDelay,
		Logger:     logger,
		Metrics:    recorder,
	}
	if snaps.writer != nil {
		opts.Writer = snaps.writer
	}
	if publisher != nil {
		opts.Publisher = publisher
	}
	plr := poller.NewMatchPoller(provider, g, commentary, memoryStore, opts)

	liveSvc := live.NewService(memoryStore, plr, commentary, g, snaps.store)
	httpSrv := buildHTTPServer(cfg, liveSvc, appmatches.NewService(memoryStore), buildBlogs(cfg, logger), logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		gate:          g,
		live:          liveSvc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		commentary:    commentary,
		publisher:     publisher,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, liveSvc *live.Service, schedule *appmatches.Service, blogs *appblogs.Service, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(liveSvc, schedule, blogs, logger)
	router := httpserver.NewRouter(handler, httpserver.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Metrics:     recorder,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.checkPublisher(ctx)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// checkPublisher pings Redis once so a bad URL shows up at startup. Publishing still
// proceeds; each failed publish is logged by the poller.
func (s *Server) checkPublisher(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.publisher.Ping(pingCtx); err != nil {
		logging.Warn(s.logger, "redis unreachable, board publishing will keep retrying", "error", err)
		return
	}
	logging.Info(s.logger, "redis publisher ready")
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}
	if s.commentary != nil {
		s.commentary.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn(s.logger, "redis close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
