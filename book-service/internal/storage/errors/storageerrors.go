package storerrros

import "errors"

var (
	ErrBookNotFound = errors.New("Book not found") //nolint:stylecheck
	ErrInvalidBook  = errors.New("invalid book data")
)
