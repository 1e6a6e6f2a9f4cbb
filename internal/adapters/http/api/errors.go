package api

import "errors"

// Sentinel kinds for diagnostics errors.
var (
	ErrListen           = errors.New("diagnostics listen failed")
	ErrServe            = errors.New("diagnostics serve failed")
	ErrMethodNotAllowed = errors.New("method not allowed")
)
