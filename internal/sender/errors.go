package sender

import "errors"

// ErrWindowClosed is returned by Send when min(cwnd,rwnd) - bytesInFlight is
// insufficient for the requested payload (spec.md §7). The caller MUST wait
// for an ACK before retrying.
var ErrWindowClosed = errors.New("sender: window closed, payload exceeds available headroom")

// ErrHandshakeRejected is returned by Handshake when the peer replies
// without the ACK|ENC flag combination (spec.md §7). The caller decides
// whether to proceed in clear.
var ErrHandshakeRejected = errors.New("sender: peer rejected encryption handshake")
