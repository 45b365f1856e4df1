package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/localdocs/api/handlers"
	"github.com/meghashyamc/localdocs/config"
	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/db/kvdb"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/metrics"
	"github.com/meghashyamc/localdocs/services/fetch"
	"github.com/meghashyamc/localdocs/services/search"
	"github.com/meghashyamc/localdocs/services/session"
	"github.com/meghashyamc/localdocs/validation"
)

// Version is reported to MCP clients as serverInfo.version.
var Version = "0.1.0"

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg           *config.Config
	router        *gin.Engine
	httpServer    *http.Server
	docstore      docstore.DB
	kvdb          kvdb.DB
	sessions      handlers.SessionManager
	searchService *search.Service
	fetchService  *fetch.Service
	mcpServer     *mcpserver.MCPServer
	metrics       *metrics.Metrics
	validator     *validation.Validator
	logger        logger.Logger
}

// Run serves until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config, logger logger.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.GetLogLevel() != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	s.setupHTTPServer()

	errC := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.httpServer.Addr, "mcp_path", cfg.GetMCPPath(), "stateless", cfg.IsStateless())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- fmt.Errorf("listen: %w", err)
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	return s.shutdown()
}

func newServer(cfg *config.Config, logger logger.Logger) (*server, error) {
	s := &server{
		cfg:    cfg,
		logger: logger,
	}
	if err := s.setupDependencies(); err != nil {
		return nil, err
	}
	s.setupRouter()

	return s, nil
}

func (s *server) setupDependencies() error {
	var err error
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s.docstore = docstore.New()
	s.searchService = search.New(s.logger, s.docstore)
	s.fetchService = fetch.New(s.logger, s.docstore)

	var clients handlers.ClientRecorder
	if !s.cfg.IsStateless() {
		kvDB, err := kvdb.New(s.logger, s.cfg.GetSessionStorePath())
		if err != nil {
			s.logger.Error("error creating kvDB", "err", err.Error())
			return err
		}
		s.kvdb = kvDB
		sessionService := session.New(s.logger, kvDB, s.validator)
		s.sessions = sessionService
		clients = sessionService
	}

	var observer handlers.ToolObserver
	if s.cfg.IsMetricsEnabled() {
		s.metrics = metrics.New()
		observer = s.metrics.ObserveToolCall
	}

	s.mcpServer = mcpserver.NewMCPServer(s.cfg.GetServerName(), Version,
		mcpserver.WithInstructions(s.cfg.GetInstructions()),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithHooks(handlers.NewHooks(s.logger, clients, observer)),
		mcpserver.WithRecovery(),
	)
	handlers.RegisterTools(s.mcpServer, s.logger, s.searchService, s.fetchService, s.validator)

	return nil
}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
	}

	s.setupRoutes(router)

	s.router = router
}

func (s *server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:              s.cfg.GetAddress(),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *server) shutdown() error {
	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")
	return nil
}

func (s *server) close() {
	if s.kvdb == nil {
		return
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err.Error())
	}
}
