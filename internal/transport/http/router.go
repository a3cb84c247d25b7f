package http

import (
	"log/slog"

	"github.com/careloop/mcp-gateway/internal/config"
	claimshandler "github.com/careloop/mcp-gateway/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	handler *Handler,
	claimsHandler *claimshandler.ClaimsHandler,
	cfg *config.Config,
	log *slog.Logger,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	// Recovery sits inside the log middleware so a panic is turned into a
	// 500 before the request record is emitted.
	router.Use(requestLogMiddleware(cfg.Auth.AppCheckHeader, log))
	router.Use(gin.Recovery())

	router.GET("/health", handler.Health)
	router.GET("/version", handler.Version)

	router.POST("/mcp/execute", handler.Execute)
	router.POST("/mcp/tools/:toolId", handler.ExecuteTool)
	router.POST("/mcp/context", handler.ExecuteContext)

	admin := router.Group("/admin")
	admin.POST("/claims", claimsHandler.Assign)
	admin.GET("/claims/:uid", claimsHandler.Lookup)

	return router
}
