// Package mocks contains mocks for the interfaces consumed by srvconnect.
package mocks

import (
	"context"
	"net"
)

// Resolver is a mockable srvconnect.Resolver.
type Resolver struct {
	MockLookupSRV            func(ctx context.Context, domain string) ([]*net.SRV, error)
	MockNetwork              func() string
	MockAddress              func() string
	MockCloseIdleConnections func()
}

// LookupSRV calls MockLookupSRV.
func (r *Resolver) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	return r.MockLookupSRV(ctx, domain)
}

// Network calls MockNetwork.
func (r *Resolver) Network() string {
	return r.MockNetwork()
}

// Address calls MockAddress.
func (r *Resolver) Address() string {
	return r.MockAddress()
}

// CloseIdleConnections calls MockCloseIdleConnections.
func (r *Resolver) CloseIdleConnections() {
	r.MockCloseIdleConnections()
}
