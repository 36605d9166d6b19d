package mocks

import (
	"context"
	"net"

	"github.com/netxkit/srvconnect"
)

// Connector is a mockable srvconnect.Connector.
type Connector struct {
	MockCall                 func(ctx context.Context, dst *srvconnect.Destination) (net.Conn, error)
	MockReady                func(ctx context.Context) error
	MockCloseIdleConnections func()
}

// Call calls MockCall.
func (c *Connector) Call(ctx context.Context, dst *srvconnect.Destination) (net.Conn, error) {
	return c.MockCall(ctx, dst)
}

// Ready calls MockReady.
func (c *Connector) Ready(ctx context.Context) error {
	return c.MockReady(ctx)
}

// CloseIdleConnections calls MockCloseIdleConnections.
func (c *Connector) CloseIdleConnections() {
	c.MockCloseIdleConnections()
}
