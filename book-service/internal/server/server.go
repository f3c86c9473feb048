package server

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/azaliaz/bookshelf/book-service/internal/activity"
	"github.com/azaliaz/bookshelf/book-service/internal/config"
	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
)

//go:generate mockgen -source=server.go -destination=./mocks/service_mock.go -package=mocks

type Storage interface {
	Create(context.Context, models.NewBook) (models.Book, error)
	FindAll(context.Context) ([]models.Book, error)
	FindOne(context.Context, int64) (models.Book, error)
	Update(context.Context, int64, models.BookPatch) (models.Book, error)
	Remove(context.Context, int64) (models.Book, error)
}

type Activity interface {
	Record(string, models.UserRequest) error
	Recent(string) ([]models.UserRequest, error)
}

type Server struct {
	serv     *http.Server
	valid    *validator.Validate
	Storage  Storage
	activity Activity
	secret   []byte
}

// New builds a server on top of stor. A nil act keeps the activity log in memory.
func New(cfg config.Config, stor Storage, act Activity) *Server {
	server := http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd // sane default
	}
	if act == nil {
		act = activity.NewMemory(cfg.ActivityLimit)
	}
	return &Server{
		serv:     &server,
		valid:    newValidator(),
		Storage:  stor,
		activity: act,
		secret:   []byte(cfg.JWTSecret),
	}
}

func newValidator() *validator.Validate {
	valid := validator.New()
	valid.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:mnd // name and options
		if name == "-" {
			return ""
		}
		return name
	})
	return valid
}

// Router wires every route of the service into a fresh engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:   []string{"Content-Length", requestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
		s.recordActivity(),
	)
	router.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, "Hello") })
	books := router.Group("/books")
	{
		books.POST("", s.guard("admin"), s.AddBook)
		books.GET("", s.AllBooks)
		books.GET("/:id", s.BookInfo)
		books.PATCH("/:id", s.guard("admin"), s.UpdateBook)
		books.DELETE("/:id", s.guard("admin"), s.RemoveBook)
	}
	router.GET("/activity/:username", s.UserActivity)
	return router
}

func (s *Server) Run(_ context.Context) error {
	log := logger.Get()
	s.serv.Handler = s.Router()
	log.Info().Str("host", s.serv.Addr).Msg("server started")
	if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ShutdownServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd // grace period
	defer cancel()
	return s.serv.Shutdown(ctx)
}
