// connection/errors.go
package connection

import "errors"

// ErrNotConnected is returned by every operation on a Conn that has been
// disconnected (or never connected). Driver-level failures are propagated
// unchanged and are never mapped onto this error.
var ErrNotConnected = errors.New("mongoconn: not connected")
