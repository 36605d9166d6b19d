package dnsx

//
// Resolver sending raw queries over UDP
//

import (
	"context"
	"net"

	"github.com/netxkit/srvconnect"
)

// resolverUDP issues a single SRV query per lookup through a
// dnsOverUDPTransport. There is deliberately no retry mechanism
// whatsoever: a failed query surfaces as a failed lookup.
type resolverUDP struct {
	encoder *dnsEncoderMiekg
	decoder *dnsDecoderMiekg
	txp     *dnsOverUDPTransport
}

var _ srvconnect.Resolver = &resolverUDP{}

// LookupSRV implements Resolver.LookupSRV.
func (r *resolverUDP) LookupSRV(ctx context.Context, domain string) ([]*net.SRV, error) {
	querydata, queryID, err := r.encoder.encodeSRV(domain)
	if err != nil {
		return nil, err
	}
	replydata, err := r.txp.roundTrip(ctx, querydata)
	if err != nil {
		return nil, err
	}
	return r.decoder.decodeSRV(replydata, queryID)
}

// Network implements Resolver.Network.
func (r *resolverUDP) Network() string {
	return "udp"
}

// Address implements Resolver.Address.
func (r *resolverUDP) Address() string {
	return r.txp.address
}

// CloseIdleConnections implements Resolver.CloseIdleConnections.
func (r *resolverUDP) CloseIdleConnections() {
	// nothing to do
}
