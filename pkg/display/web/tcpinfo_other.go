//go:build !linux

package web

import (
	"errors"
	"net"
	"time"
)

func rtt(net.Conn) (time.Duration, error) {
	return 0, errors.New("round trip time not supported on this platform")
}
