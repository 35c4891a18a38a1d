package store

import "errors"

var ErrNotFound = errors.New("store: tab not found")
