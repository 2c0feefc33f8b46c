package errors

import "errors"

var ErrFavoriteNotFound = errors.New("favorite not found")
