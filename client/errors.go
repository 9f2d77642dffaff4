package client

import "errors"

// ErrConnectionClosed is reported by H2Sender.PollReady once the HTTP/2
// connection is closed or draining. The connection never recovers.
var ErrConnectionClosed = errors.New("h2bridge: connection closed")
