package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	claimsapp "github.com/careloop/mcp-gateway/internal/app/claims"
	gatewayapp "github.com/careloop/mcp-gateway/internal/app/gateway"
	"github.com/careloop/mcp-gateway/internal/config"
	"github.com/careloop/mcp-gateway/internal/domain/authz"
	claimsdomain "github.com/careloop/mcp-gateway/internal/domain/claims"
	"github.com/careloop/mcp-gateway/internal/domain/relay"
	"github.com/careloop/mcp-gateway/internal/infra/identity"
	"github.com/careloop/mcp-gateway/internal/infra/store"
	"github.com/careloop/mcp-gateway/internal/registry"
	claimshandler "github.com/careloop/mcp-gateway/internal/transport/http/handler"
	"github.com/careloop/mcp-gateway/pkg/logger"
	"github.com/careloop/mcp-gateway/pkg/otel"
	"github.com/careloop/mcp-gateway/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "mcp-gateway"
)

func NewServer(cfg *config.Config) (*Server, error) {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.Config{
		ServiceName:        serviceName,
		Environment:        os.Getenv("APP_ENV"),
		EndpointURL:        cfg.Observability.TracingEndpointURL,
		Enabled:            cfg.Observability.TraceEnabled,
		SampleRatio:        1.0,
		Insecure:           true,
		ResourceAttributes: make(map[string]string),
	}
	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	redisClient, err := store.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	verifier := identity.NewVerifier(cfg.Auth.Issuer, cfg.Auth.Audience)
	guard := authz.NewService(verifier)

	toolRegistry := registry.New(cfg.Registry.Tools)
	logger.InfoContext(context.Background(), "tool registry loaded",
		slog.Int("tools", len(toolRegistry.Tools())),
		slog.String("toolIds", strings.Join(toolRegistry.Tools(), ",")),
	)

	forwarder := relay.NewForwarder(cfg.Upstream.Timeout)

	gatewayService := gatewayapp.NewService(guard, toolRegistry, forwarder, cfg.Auth.AllowedRoles)

	claimsStore := store.NewClaimsStore(redisClient)
	auditSink := store.NewAuditSink(redisClient)
	issuer := claimsdomain.NewService(claimsStore, auditSink, cfg.Audit.RetentionDays)
	claimsService := claimsapp.NewService(verifier, issuer)

	handler := NewHandler(gatewayService)
	claimsHandler := claimshandler.NewClaimsHandler(claimsService)
	router := NewRouter(handler, claimsHandler, cfg, logger.Default())

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
