package srvconnect

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
)

func TestSchemeDefaultPort(t *testing.T) {
	tests := []struct {
		scheme string
		port   string
		found  bool
	}{
		{"http", "80", true},
		{"ws", "80", true},
		{"https", "443", true},
		{"wss", "443", true},
		{"ftp", "", false},
		{"", "", false},
	}
	for _, test := range tests {
		port, found := schemeDefaultPort(test.scheme)
		if port != test.port || found != test.found {
			t.Fatal("unexpected mapping for scheme", test.scheme)
		}
	}
}

func TestConnectorSystem(t *testing.T) {
	t.Run("with explicit port", func(t *testing.T) {
		var gotAddress string
		connector := &connectorSystem{
			testableDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				gotAddress = address
				return nil, io.EOF
			},
		}
		dst, err := NewDestination("https", "svc.example", "8443", "/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := connector.Call(context.Background(), dst); !errors.Is(err, io.EOF) {
			t.Fatal("not the error we expected", err)
		}
		if gotAddress != "svc.example:8443" {
			t.Fatal("unexpected dial address", gotAddress)
		}
	})

	t.Run("falls back to the scheme default port", func(t *testing.T) {
		var gotAddress string
		connector := &connectorSystem{
			testableDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				gotAddress = address
				return nil, io.EOF
			},
		}
		dst, err := NewDestination("http", "svc.example", "", "/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := connector.Call(context.Background(), dst); !errors.Is(err, io.EOF) {
			t.Fatal("not the error we expected", err)
		}
		if gotAddress != "svc.example:80" {
			t.Fatal("unexpected dial address", gotAddress)
		}
	})

	t.Run("without port and without scheme default", func(t *testing.T) {
		connector := &connectorSystem{
			testableDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
				t.Error("should not dial")
				return nil, io.EOF
			},
		}
		dst, err := NewDestination("gopher", "svc.example", "", "/")
		if err != nil {
			t.Fatal(err)
		}
		conn, err := connector.Call(context.Background(), dst)
		if !errors.Is(err, ErrMissingPort) {
			t.Fatal("not the error we expected", err)
		}
		if conn != nil {
			t.Fatal("expected nil conn")
		}
	})

	t.Run("is always ready", func(t *testing.T) {
		connector := &connectorSystem{}
		if err := connector.Ready(context.Background()); err != nil {
			t.Fatal(err)
		}
		connector.CloseIdleConnections() // should not crash
	})
}

// recordingLogger counts debug lines for the logging decorators.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

var _ Logger = &recordingLogger{}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *recordingLogger) Debug(msg string) { l.record(msg) }

func (l *recordingLogger) Debugf(format string, v ...interface{}) { l.record(format) }

func (l *recordingLogger) Info(msg string) {}

func (l *recordingLogger) Infof(format string, v ...interface{}) {}

func (l *recordingLogger) Warn(msg string) {}

func (l *recordingLogger) Warnf(format string, v ...interface{}) {}

func TestConnectorLogger(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		logger := &recordingLogger{}
		connector := &connectorLogger{
			Connector: &connectorSystem{
				testableDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
					return &net.TCPConn{}, nil
				},
			},
			Logger: logger,
		}
		dst, err := NewDestination("http", "svc.example", "80", "/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := connector.Call(context.Background(), dst); err != nil {
			t.Fatal(err)
		}
		if len(logger.lines) != 2 {
			t.Fatal("unexpected number of log lines", len(logger.lines))
		}
	})

	t.Run("on failure", func(t *testing.T) {
		logger := &recordingLogger{}
		connector := &connectorLogger{
			Connector: &connectorSystem{
				testableDialContext: func(ctx context.Context, network, address string) (net.Conn, error) {
					return nil, io.EOF
				},
			},
			Logger: logger,
		}
		dst, err := NewDestination("http", "svc.example", "80", "/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := connector.Call(context.Background(), dst); !errors.Is(err, io.EOF) {
			t.Fatal("not the error we expected", err)
		}
		if len(logger.lines) != 2 {
			t.Fatal("unexpected number of log lines", len(logger.lines))
		}
	})
}

func TestNewSystemConnectorUsesDiscardLoggerByDefault(t *testing.T) {
	connector := NewSystemConnector(nil)
	logger := connector.(*connectorLogger)
	if logger.Logger != DiscardLogger {
		t.Fatal("unexpected logger")
	}
}
