package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
	storerrros "github.com/azaliaz/bookshelf/book-service/internal/storage/errors"
)

const msgInvalidID = "Validation failed (numeric string is expected)"

var numericID = regexp.MustCompile(`^-?\d+$`)

func (s *Server) AddBook(ctx *gin.Context) {
	var req models.NewBook
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "incorrectly entered data")
		return
	}
	if !s.validate(ctx, req) {
		return
	}

	book, err := s.Storage.Create(ctx.Request.Context(), req)
	if err != nil {
		storageError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, book)
}

func (s *Server) AllBooks(ctx *gin.Context) {
	books, err := s.Storage.FindAll(ctx.Request.Context())
	if err != nil {
		storageError(ctx, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	ctx.JSON(http.StatusOK, books)
}

func (s *Server) BookInfo(ctx *gin.Context) {
	id, ok := bookID(ctx)
	if !ok {
		return
	}
	book, err := s.Storage.FindOne(ctx.Request.Context(), id)
	if err != nil {
		storageError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, book)
}

// UpdateBook merges the fields present in the body into the stored book.
// An id in the body is ignored.
func (s *Server) UpdateBook(ctx *gin.Context) {
	id, ok := bookID(ctx)
	if !ok {
		return
	}
	var req models.BookPatch
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(ctx, http.StatusBadRequest, "incorrectly entered data")
		return
	}
	if !s.validate(ctx, req) {
		return
	}

	book, err := s.Storage.Update(ctx.Request.Context(), id, req)
	if err != nil {
		storageError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) RemoveBook(ctx *gin.Context) {
	id, ok := bookID(ctx)
	if !ok {
		return
	}
	book, err := s.Storage.Remove(ctx.Request.Context(), id)
	if err != nil {
		storageError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) UserActivity(ctx *gin.Context) {
	log := logger.Get()
	username := ctx.Param("username")
	ops, err := s.activity.Recent(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("read activity failed")
		errorResponse(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}
	ctx.JSON(http.StatusOK, ops)
}

// bookID accepts only plain decimal ids. Numeric ids beyond int64 can not
// belong to any book and answer 404.
func bookID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	if !numericID.MatchString(raw) {
		errorResponse(ctx, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorResponse(ctx, http.StatusNotFound, storerrros.ErrBookNotFound.Error())
		return 0, false
	}
	return id, true
}

func (s *Server) validate(ctx *gin.Context, req any) bool {
	err := s.valid.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errorResponse(ctx, http.StatusBadRequest, err.Error())
		return false
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"statusCode": http.StatusBadRequest,
		"message":    messages,
		"error":      http.StatusText(http.StatusBadRequest),
	})
	return false
}

func storageError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, storerrros.ErrBookNotFound):
		errorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, storerrros.ErrInvalidBook):
		errorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		log := logger.Get()
		log.Error().Err(err).Str("path", ctx.Request.URL.Path).Msg("storage failed")
		errorResponse(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func errorResponse(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}
