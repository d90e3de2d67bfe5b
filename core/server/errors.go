package server

import "errors"

var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMissingAddress       = errors.New("server address is required")
	ErrEmptyCertPath        = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
)
