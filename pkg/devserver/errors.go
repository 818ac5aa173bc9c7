package devserver

import "errors"

// ErrNilTransport is returned by New without a transport.
var ErrNilTransport = errors.New("devserver: transport is required")
