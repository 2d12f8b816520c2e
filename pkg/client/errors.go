package client

import "errors"

var (
	// ErrDaemonNotRunning is returned when the daemon socket does not exist.
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the daemon socket is not accessible
	// by the current user.
	ErrPermissionDenied = errors.New("permission denied")
)
