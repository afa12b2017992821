package server

import "errors"

// errNoAddress is returned when the status server is created without a
// listen address.
var errNoAddress = errors.New("status server address is not configured")
