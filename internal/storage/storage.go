package storage

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrPhotoNotFound = errors.New("photo not found")
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("path escapes storage directory")
)
