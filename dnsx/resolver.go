// Package dnsx implements SRV resolvers for srvconnect.
//
// NewSystemResolver wraps the system resolver; NewUDPResolver speaks raw
// DNS over UDP with a specific server. Both return resolvers that map the
// explicit "name exists but has no SRV records" answer to
// srvconnect.ErrNoSRVRecords, handle internationalized domain names, and
// emit debug logs.
package dnsx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/netxkit/srvconnect"
	"golang.org/x/net/idna"
)

// NewSystemResolver creates a Resolver using net.DefaultResolver.
func NewSystemResolver(logger srvconnect.Logger) srvconnect.Resolver {
	return WrapResolver(logger, &resolverSystem{})
}

// NewUDPResolver creates a Resolver sending raw DNS queries over UDP
// to the server at the given address (e.g., "8.8.8.8:53").
func NewUDPResolver(logger srvconnect.Logger, address string) srvconnect.Resolver {
	return WrapResolver(logger, &resolverUDP{
		encoder: &dnsEncoderMiekg{},
		decoder: &dnsDecoderMiekg{},
		txp:     &dnsOverUDPTransport{address: address},
	})
}

// WrapResolver wraps an existing resolver to add these properties:
//
// 1. handles IDNA;
//
// 2. performs logging;
//
// 3. normalizes the explicit not-found answer to
// srvconnect.ErrNoSRVRecords.
func WrapResolver(logger srvconnect.Logger, resolver srvconnect.Resolver) srvconnect.Resolver {
	return &resolverIDNA{
		Resolver: &resolverLogger{
			Resolver: &resolverErrWrapper{
				Resolver: resolver,
			},
			Logger: srvconnect.ValidLoggerOrDefault(logger),
		},
	}
}

// resolverSystem queries SRV records through net.DefaultResolver.
type resolverSystem struct {
	// testableTimeout allows to override the timeout in tests.
	testableTimeout time.Duration

	// testableLookupSRV allows to override the lookup in tests.
	testableLookupSRV func(ctx context.Context, domain string) ([]*net.SRV, error)
}

var _ srvconnect.Resolver = &resolverSystem{}

// LookupSRV implements Resolver.LookupSRV.
func (r *resolverSystem) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	// Enforce a watchdog timeout on top of the system resolver, which
	// otherwise may take unreasonably long to give up.
	recch, errch := make(chan []*net.SRV, 1), make(chan error, 1)
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()
	go func() {
		records, err := r.lookupSRV()(ctx, domain)
		if err != nil {
			errch <- err
			return
		}
		recch <- records
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case records := <-recch:
		return records, nil
	case err := <-errch:
		return nil, err
	}
}

func (r *resolverSystem) timeout() time.Duration {
	if r.testableTimeout > 0 {
		return r.testableTimeout
	}
	return 15 * time.Second
}

func (r *resolverSystem) lookupSRV() func(ctx context.Context, domain string) ([]*net.SRV, error) {
	if r.testableLookupSRV != nil {
		return r.testableLookupSRV
	}
	return func(ctx context.Context, domain string) ([]*net.SRV, error) {
		// Empty service and proto mean the domain is already the full
		// SRV name (e.g., "_http._tcp.example.com").
		_, records, err := net.DefaultResolver.LookupSRV(ctx, "", "", domain)
		return records, err
	}
}

// Network implements Resolver.Network.
func (r *resolverSystem) Network() string {
	return "system"
}

// Address implements Resolver.Address.
func (r *resolverSystem) Address() string {
	return ""
}

// CloseIdleConnections implements Resolver.CloseIdleConnections.
func (r *resolverSystem) CloseIdleConnections() {
	// nothing to do
}

// resolverLogger is a resolver that emits events.
type resolverLogger struct {
	srvconnect.Resolver
	Logger srvconnect.Logger
}

var _ srvconnect.Resolver = &resolverLogger{}

// LookupSRV implements Resolver.LookupSRV.
func (r *resolverLogger) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	prefix := fmt.Sprintf("resolve[SRV] %s with %s (%s)", domain, r.Network(), r.Address())
	r.Logger.Debugf("%s...", prefix)
	start := time.Now()
	records, err := r.Resolver.LookupSRV(ctx, domain)
	elapsed := time.Since(start)
	if err != nil {
		r.Logger.Debugf("%s... %s in %s", prefix, err, elapsed)
		return nil, err
	}
	r.Logger.Debugf("%s... %d records in %s", prefix, len(records), elapsed)
	return records, nil
}

// resolverIDNA supports resolving Internationalized Domain Names.
//
// See RFC3492 for more information.
type resolverIDNA struct {
	srvconnect.Resolver
}

var _ srvconnect.Resolver = &resolverIDNA{}

// LookupSRV implements Resolver.LookupSRV.
func (r *resolverIDNA) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	host, err := idna.ToASCII(domain)
	if err != nil {
		return nil, err
	}
	return r.Resolver.LookupSRV(ctx, host)
}

// resolverErrWrapper normalizes explicit not-found answers coming from
// the underlying resolver to srvconnect.ErrNoSRVRecords, so that callers
// only need to special case a single sentinel. Query failures pass
// through untouched.
type resolverErrWrapper struct {
	srvconnect.Resolver
}

var _ srvconnect.Resolver = &resolverErrWrapper{}

// LookupSRV implements Resolver.LookupSRV.
func (r *resolverErrWrapper) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	records, err := r.Resolver.LookupSRV(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, srvconnect.ErrNoSRVRecords
		}
		return nil, err
	}
	if len(records) < 1 {
		return nil, srvconnect.ErrNoSRVRecords
	}
	return records, nil
}
