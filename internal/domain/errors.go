package domain

import "errors"

var (
	ErrSessionBusy       = errors.New("a session is already currently running")
	ErrDaemonUnavailable = errors.New("container daemon is not available")
	ErrContainerNotFound = errors.New("no container found for target version")
	ErrLaunchFailed      = errors.New("instance launch failed")
)
