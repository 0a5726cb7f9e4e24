package tui

import "errors"

// ErrMissingAccountService is returned when the account service is not provided.
var ErrMissingAccountService = errors.New("tui: account service is required")

// ErrMissingLoginGuard is returned when no login guard factory is provided.
var ErrMissingLoginGuard = errors.New("tui: login guard is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
