package equitywire

import (
	"github.com/pkg/errors"
)

var (
	ErrConnectionClosed = errors.New("connection has been closed")
	ErrCannotConnect    = errors.New("connection cannot be established")
	ErrClientClosed     = errors.New("client has been closed")
	ErrAlreadyOpened    = errors.New("client has already been opened")
	ErrTerminated       = errors.New("connection terminated from our side")
	ErrRateLimit        = errors.New("rate limit exceeded")
)
