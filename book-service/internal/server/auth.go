package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/azaliaz/bookshelf/book-service/internal/logger"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Role   string
}

// guard lets the request through only with a bearer token carrying one of
// roles. It is a no-op when the server runs without a secret.
func (s *Server) guard(roles ...string) gin.HandlerFunc {
	if len(s.secret) == 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return func(ctx *gin.Context) {
		log := logger.Get()

		tokenHeader := ctx.GetHeader("Authorization")
		if tokenHeader == "" {
			errorResponse(ctx, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenParts := strings.Split(tokenHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			errorResponse(ctx, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := s.validToken(tokenParts[1])
		if err != nil {
			log.Error().Err(err).Msg("validate jwt failed")
			errorResponse(ctx, http.StatusUnauthorized, "Invalid token")
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			errorResponse(ctx, http.StatusForbidden, "Access denied")
			return
		}
		ctx.Set("uid", claims.UserID)
		ctx.Set("role", claims.Role)
		ctx.Next()
	}
}

func (s *Server) validToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
