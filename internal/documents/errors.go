package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrForbidden    = errors.New("document owned by another user")
	ErrDuplicate    = errors.New("document with this filename already uploaded")
	ErrInvalidInput = errors.New("invalid input")
)
