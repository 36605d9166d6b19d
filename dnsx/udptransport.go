package dnsx

//
// DNS-over-UDP round trips
//

import (
	"context"
	"net"
	"time"
)

// udpDialer is the net.Dialer used by dnsOverUDPTransport.
var udpDialer = &net.Dialer{}

// dnsOverUDPTransport sends a query to a DNS server over UDP
// and receives the corresponding reply.
type dnsOverUDPTransport struct {
	// address is the server endpoint (e.g., 8.8.8.8:53).
	address string
}

// roundTrip sends a query and receives a reply.
func (t *dnsOverUDPTransport) roundTrip(ctx context.Context, query []byte) ([]byte, error) {
	conn, err := udpDialer.DialContext(ctx, "udp", t.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	// Use five seconds timeout like Bionic does. See
	// https://labs.ripe.net/Members/baptiste_jonglez_1/persistent-dns-connections-for-reliability-and-performance
	deadline := time.Now().Add(5 * time.Second)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err = conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if _, err = conn.Write(query); err != nil {
		return nil, err
	}
	reply := make([]byte, 1<<17)
	n, err := conn.Read(reply)
	if err != nil {
		return nil, err
	}
	return reply[:n], nil
}
