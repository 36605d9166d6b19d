// Package srvconnect wraps a transport-level connector with the ability to
// preresolve SRV DNS records before supplying the resulting host:port pair
// to the underlying connector.
//
// The entry point is ServiceConnector. When the destination lacks an
// explicit port and a resolver is configured, a connection attempt first
// looks up SRV records for the destination host and, if any exist,
// rewrites the destination to the highest-priority record before
// delegating; in every other case it delegates unchanged. See the dnsx
// subpackage for ready-made resolvers.
package srvconnect

import (
	"context"
	"errors"
	"net"

	"github.com/netxkit/srvconnect/internal/optional"
)

// Connector establishes transport-level connections for destinations.
//
// A Connector must be safe for concurrent use: it is shared read-only
// across arbitrarily many in-flight connection attempts.
type Connector interface {
	// Call opens a connection to the given destination. The context
	// governs cancellation of the whole attempt.
	Call(ctx context.Context, dst *Destination) (net.Conn, error)

	// Ready reports whether the connector can accept a new connection
	// attempt. A nil return means ready.
	Ready(ctx context.Context) error

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// Resolver performs SRV lookups.
//
// Like Connector, a Resolver is shared across concurrent attempts and
// must tolerate concurrent invocation; any internal synchronization or
// timeout policy is the resolver's own business.
type Resolver interface {
	// LookupSRV returns the SRV records for domain, ordered lowest
	// priority first. When the name exists but carries no SRV records,
	// it returns an error satisfying errors.Is(err, ErrNoSRVRecords);
	// any other error means the query itself failed.
	LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error)

	// Network returns the resolver type (e.g., system, udp).
	Network() string

	// Address returns the resolver address (e.g., 8.8.8.8:53) or an
	// empty string when not applicable.
	Address() string

	// CloseIdleConnections closes idle connections, if any.
	CloseIdleConnections()
}

// ServiceConnector is a Connector that may preresolve SRV records before
// delegating connection establishment to an inner Connector.
//
// Construct with New. The zero value is invalid.
type ServiceConnector struct {
	inner    Connector
	resolver optional.Value[Resolver]
}

var _ Connector = &ServiceConnector{}

// New creates a ServiceConnector with the provided inner connector and
// optional resolver. If the resolver is nil, every call is handled
// directly by the inner connector. This allows toggling the SRV
// preresolving mechanism without changing the connector type declared
// by the embedding client.
func New(inner Connector, resolver Resolver) *ServiceConnector {
	sc := &ServiceConnector{
		inner:    inner,
		resolver: optional.None[Resolver](),
	}
	if resolver != nil {
		sc.resolver = optional.Some(resolver)
	}
	return sc
}

// Call implements Connector.Call.
//
// The destination is classified exactly once, when the attempt starts:
// preresolution applies iff a resolver is configured, the destination has
// a host, and the destination has no explicit port. The facade itself
// performs no I/O; all the work happens inside the spawned attempt on the
// caller's goroutine.
func (sc *ServiceConnector) Call(ctx context.Context, dst *Destination) (net.Conn, error) {
	attempt := &connecting{
		connector: sc.inner,
		dst:       dst,
	}
	if sc.resolver.IsSome() && dst.Host() != "" && !dst.HasPort() {
		attempt.resolver = sc.resolver.Unwrap()
		return attempt.preresolve(ctx)
	}
	return attempt.delegate(ctx)
}

// Ready implements Connector.Ready by mirroring the readiness of the
// shared inner connector, wrapping its failure.
func (sc *ServiceConnector) Ready(ctx context.Context) error {
	if err := sc.inner.Ready(ctx); err != nil {
		return newServiceError(ReadyOperation, err)
	}
	return nil
}

// CloseIdleConnections implements Connector.CloseIdleConnections.
func (sc *ServiceConnector) CloseIdleConnections() {
	sc.inner.CloseIdleConnections()
	if sc.resolver.IsSome() {
		sc.resolver.Unwrap().CloseIdleConnections()
	}
}

// connecting is a single in-flight connection attempt. An attempt awaits
// at most two sub-operations over its whole lifetime, the SRV lookup and
// the inner connect, and produces exactly one connection or one failure.
//
// Each attempt owns its destination and shares nothing mutable with other
// attempts. The lookup strictly precedes the rewrite decision, which
// strictly precedes the inner connect: completing the lookup continues
// into the inner connect within the same call, with no extra scheduling
// round trip in between.
type connecting struct {
	// connector is the shared inner connector.
	connector Connector

	// resolver is set only when preresolution applies.
	resolver Resolver

	// dst is the current destination. Replaced, never mutated, when
	// the rewrite decision picks an SRV record.
	dst *Destination
}

// preresolve runs the lookup phase and then delegates.
func (c *connecting) preresolve(ctx context.Context) (net.Conn, error) {
	records, err := c.resolver.LookupSRV(ctx, c.dst.Host())
	if err != nil {
		if errors.Is(err, ErrNoSRVRecords) {
			// Expected outcome: use the original destination unchanged.
			return c.delegate(ctx)
		}
		// A failed query is fatal: no fallback to the inner connector.
		return nil, newServiceError(ResolveOperation, err)
	}
	if len(records) < 1 {
		return c.delegate(ctx)
	}
	// Only the first record matters: no weighting, no round robin.
	dst, err := c.dst.withSRV(records[0])
	if err != nil {
		return nil, newServiceError(RewriteOperation, err)
	}
	c.dst = dst
	return c.delegate(ctx)
}

// delegate runs the inner connect phase. The connection value is returned
// unchanged; a failure is wrapped as a connect error preserving the inner
// connector's error as the cause.
func (c *connecting) delegate(ctx context.Context) (net.Conn, error) {
	conn, err := c.connector.Call(ctx, c.dst)
	if err != nil {
		return nil, newServiceError(ConnectOperation, err)
	}
	return conn, nil
}
