package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
)

const requestIDHeader = "X-Request-ID"

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log := logger.Get()
		start := time.Now()

		rid := ctx.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx.Set("request_id", rid)
		ctx.Header(requestIDHeader, rid)

		ctx.Next()

		log.Info().
			Str("request_id", rid).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

// recordActivity stores the request in the activity log of the user named
// by the username query parameter. Unrouted requests are not recorded and a
// failing log never fails the request.
func (s *Server) recordActivity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, ok := ctx.GetQuery("username")
		if ok && username != "" && ctx.FullPath() != "" {
			err := s.activity.Record(username, models.UserRequest{
				Method: ctx.Request.Method,
				Route:  ctx.Request.URL.Path,
			})
			if err != nil {
				log := logger.Get()
				log.Warn().Err(err).Str("username", username).Msg("record activity failed")
			}
		}
		ctx.Next()
	}
}
