package service

import (
	"context"
	"net"
	"time"
)

// dialer bounds the broker dial by ctx so a dead broker cannot stall the
// publishing goroutine past its deadline.
func dialer(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: 5 * time.Second}
		return d.DialContext(ctx, network, addr)
	}
}
