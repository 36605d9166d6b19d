// Package testingx contains helpers shared by tests: most notably a
// local DNS server answering SRV queries with programmable behavior.
package testingx

import (
	"io"
	"net"
	"strings"

	"github.com/miekg/dns"
)

// DNSAction is the action a DNSServer takes for a query.
type DNSAction string

const (
	// DNSActionRecords replies with the configured SRV records.
	DNSActionRecords = DNSAction("records")

	// DNSActionNXDOMAIN replies with NXDOMAIN.
	DNSActionNXDOMAIN = DNSAction("nxdomain")

	// DNSActionNoAnswer returns an empty reply.
	DNSActionNoAnswer = DNSAction("no-answer")

	// DNSActionServfail replies with SERVFAIL.
	DNSActionServfail = DNSAction("servfail")

	// DNSActionTimeout never replies to the query.
	DNSActionTimeout = DNSAction("timeout")
)

// DNSServer is a local DNS-over-UDP server for tests.
type DNSServer struct {
	// Records maps FQDNs (with the final `.`) to the SRV records
	// served for them by DNSActionRecords.
	Records map[string][]*net.SRV

	// OnQuery is the MANDATORY hook called whenever we receive a
	// query for the given domain.
	OnQuery func(domain string) DNSAction
}

// DNSListener is the interface returned by DNSServer.Start.
type DNSListener interface {
	io.Closer
	LocalAddr() net.Addr
}

// Start starts the server on the given address (typically "127.0.0.1:0").
func (s *DNSServer) Start(address string) (DNSListener, error) {
	pconn, err := net.ListenPacket("udp", address)
	if err != nil {
		return nil, err
	}
	go s.mainloop(pconn)
	return pconn, nil
}

func (s *DNSServer) mainloop(pconn net.PacketConn) {
	for s.oneloop(pconn) {
		// nothing
	}
}

func (s *DNSServer) oneloop(pconn net.PacketConn) bool {
	buffer := make([]byte, 1<<12)
	count, addr, err := pconn.ReadFrom(buffer)
	if err != nil {
		return !strings.HasSuffix(err.Error(), "use of closed network connection")
	}
	buffer = buffer[:count]
	go s.serveAsync(pconn, addr, buffer)
	return true
}

func (s *DNSServer) serveAsync(pconn net.PacketConn, addr net.Addr, buffer []byte) {
	query := &dns.Msg{}
	if err := query.Unpack(buffer); err != nil {
		return
	}
	reply, err := s.reply(query)
	if err != nil {
		return
	}
	replyBytes, err := reply.Pack()
	if err != nil {
		return
	}
	pconn.WriteTo(replyBytes, addr)
}

func (s *DNSServer) reply(query *dns.Msg) (*dns.Msg, error) {
	if len(query.Question) != 1 {
		return nil, errUnhandledMessage
	}
	name := query.Question[0].Name
	switch s.OnQuery(name) {
	case DNSActionRecords:
		return s.records(name, query), nil
	case DNSActionNXDOMAIN:
		return s.withRcode(query, dns.RcodeNameError), nil
	case DNSActionNoAnswer:
		return s.withRcode(query, dns.RcodeSuccess), nil
	case DNSActionServfail:
		return s.withRcode(query, dns.RcodeServerFailure), nil
	case DNSActionTimeout:
		return nil, errIgnoreThisQuery
	default:
		return s.withRcode(query, dns.RcodeRefused), nil
	}
}

func (s *DNSServer) records(name string, query *dns.Msg) *dns.Msg {
	reply := s.withRcode(query, dns.RcodeSuccess)
	for _, record := range s.Records[name] {
		reply.Answer = append(reply.Answer, &dns.SRV{
			Hdr: dns.RR_Header{
				Name:   name,
				Rrtype: dns.TypeSRV,
				Class:  dns.ClassINET,
				Ttl:    0,
			},
			Priority: record.Priority,
			Weight:   record.Weight,
			Port:     record.Port,
			Target:   record.Target,
		})
	}
	return reply
}

func (s *DNSServer) withRcode(query *dns.Msg, rcode int) *dns.Msg {
	reply := &dns.Msg{}
	reply.SetReply(query)
	reply.Rcode = rcode
	return reply
}

type replyError string

func (e replyError) Error() string {
	return string(e)
}

const (
	errUnhandledMessage = replyError("unhandled message")
	errIgnoreThisQuery  = replyError("let's ignore this query")
)
