package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"auth-api/internal/service"
)

const requestIDHeader = "X-Request-Id"

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	serviceName string,
	tp trace.TracerProvider,
	userH *UserHandler,
	authH *AuthHandler,
	healthH *HealthHandler,
	tokenServ *service.TokenService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery, JSON content-type
	// y span de servidor por request via otelgin.
	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		jsonContentTypeMiddleware(),
		otelgin.Middleware(serviceName, otelgin.WithTracerProvider(tp)),
	)

	r.GET("/health", healthH.Check)
	r.POST("/register", userH.Register)
	r.POST("/login", authH.Login)

	protected := r.Group("/")
	protected.Use(TokenAuthMiddleware(tokenServ, tp.Tracer("auth.middleware")))
	protected.GET("/me", userH.Me)

	return r
}

// requestIDMiddleware propaga o genera un id de request por respuesta.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
