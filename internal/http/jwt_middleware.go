package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"auth-api/internal/service"
)

const authUserIDKey = "auth_user_id"

// TokenAuthMiddleware valida el token del header Authorization y guarda el id
// del usuario en el contexto. El header se usa tal cual, sin prefijo Bearer.
func TokenAuthMiddleware(tokens *service.TokenService, tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "token service not configured"})
			return
		}

		_, span := tracer.Start(c.Request.Context(), "token.verify")

		token := c.GetHeader("Authorization")
		span.SetAttributes(attribute.Bool("token.exists", token != ""))

		if token == "" {
			span.SetStatus(codes.Error, "no token provided")
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no token provided"})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "error validating token",
				"error":   err.Error(),
			})
			return
		}

		span.SetAttributes(attribute.Int64("user.id", claims.Usuario.ID))
		span.SetStatus(codes.Ok, "")
		span.End()

		c.Set(authUserIDKey, claims.Usuario.ID)
		c.Next()
	}
}

// GetAuthUserID obtiene el id de usuario autenticado desde el contexto.
func GetAuthUserID(c *gin.Context) (int64, bool) {
	val, ok := c.Get(authUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}
