package srvconnect

//
// Default inner connector
//

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// NewSystemConnector creates a Connector that opens TCP connections using
// the Go standard dialer and emits debug logs through the given logger.
// Destinations without an explicit port fall back to the default port of
// their scheme.
func NewSystemConnector(logger Logger) Connector {
	return &connectorLogger{
		Connector: &connectorSystem{},
		Logger:    ValidLoggerOrDefault(logger),
	}
}

// systemDialer is the net.Dialer used by connectorSystem.
var systemDialer = &net.Dialer{
	Timeout:   15 * time.Second,
	KeepAlive: 15 * time.Second,
}

// ErrMissingPort indicates that a destination carries neither an explicit
// port nor a scheme with a known default port.
var ErrMissingPort = errors.New("destination: no port and no scheme default")

// connectorSystem opens TCP connections using the Go stdlib.
type connectorSystem struct {
	// testableDialContext allows overriding the dial in tests.
	testableDialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

var _ Connector = &connectorSystem{}

// Call implements Connector.Call.
func (c *connectorSystem) Call(ctx context.Context, dst *Destination) (net.Conn, error) {
	port := dst.Port()
	if port == "" {
		var found bool
		port, found = schemeDefaultPort(dst.Scheme())
		if !found {
			return nil, ErrMissingPort
		}
	}
	return c.dialContext()(ctx, "tcp", net.JoinHostPort(dst.Host(), port))
}

func (c *connectorSystem) dialContext() func(ctx context.Context, network, address string) (net.Conn, error) {
	if c.testableDialContext != nil {
		return c.testableDialContext
	}
	return systemDialer.DialContext
}

// Ready implements Connector.Ready. The system connector is always ready.
func (c *connectorSystem) Ready(ctx context.Context) error {
	return nil
}

// CloseIdleConnections implements Connector.CloseIdleConnections.
func (c *connectorSystem) CloseIdleConnections() {
	// nothing to do
}

// schemeDefaultPort maps a scheme to its default port.
func schemeDefaultPort(scheme string) (string, bool) {
	switch scheme {
	case "http", "ws":
		return "80", true
	case "https", "wss":
		return "443", true
	default:
		return "", false
	}
}

// connectorLogger is a Connector with logging.
type connectorLogger struct {
	// Connector is the underlying connector.
	Connector

	// Logger is the underlying logger.
	Logger Logger
}

var _ Connector = &connectorLogger{}

// Call implements Connector.Call.
func (c *connectorLogger) Call(ctx context.Context, dst *Destination) (net.Conn, error) {
	prefix := fmt.Sprintf("connect %s", dst.HostPort())
	c.Logger.Debugf("%s...", prefix)
	start := time.Now()
	conn, err := c.Connector.Call(ctx, dst)
	elapsed := time.Since(start)
	if err != nil {
		c.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	c.Logger.Debugf("%s... ok in %s", prefix, elapsed)
	return conn, nil
}
