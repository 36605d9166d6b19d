package dnsx

//
// Decode byte arrays to SRV records
//

import (
	"errors"
	"net"
	"sort"

	"github.com/miekg/dns"
	"github.com/netxkit/srvconnect"
)

// ErrDNSReplyWithWrongQueryID indicates we have got a DNS reply with the wrong queryID.
var ErrDNSReplyWithWrongQueryID = errors.New("dns: reply with wrong query ID")

// ErrDNSRefused indicates the server refused to serve the query.
var ErrDNSRefused = errors.New("dns: query refused")

// ErrDNSServfail indicates the server failed while serving the query.
var ErrDNSServfail = errors.New("dns: server failure")

// ErrDNSMisbehaving is the catch-all error for reply codes we
// do not handle explicitly.
var ErrDNSMisbehaving = errors.New("dns: server misbehaving")

// dnsDecoderMiekg uses github.com/miekg/dns to decode SRV replies.
type dnsDecoderMiekg struct{}

func (d *dnsDecoderMiekg) parseReply(data []byte, queryID uint16) (*dns.Msg, error) {
	reply := new(dns.Msg)
	if err := reply.Unpack(data); err != nil {
		return nil, err
	}
	if reply.Id != queryID {
		return nil, ErrDNSReplyWithWrongQueryID
	}
	switch reply.Rcode {
	case dns.RcodeSuccess:
		return reply, nil
	case dns.RcodeNameError:
		// NXDOMAIN is an authoritative "this name has no records":
		// the expected, recoverable outcome rather than a failure.
		return nil, srvconnect.ErrNoSRVRecords
	case dns.RcodeRefused:
		return nil, ErrDNSRefused
	case dns.RcodeServerFailure:
		return nil, ErrDNSServfail
	default:
		return nil, ErrDNSMisbehaving
	}
}

// decodeSRV decodes the SRV records inside the given reply, ordered
// lowest priority first with higher weights first within a priority. An
// empty answer section maps to srvconnect.ErrNoSRVRecords.
func (d *dnsDecoderMiekg) decodeSRV(data []byte, queryID uint16) ([]*net.SRV, error) {
	reply, err := d.parseReply(data, queryID)
	if err != nil {
		return nil, err
	}
	var records []*net.SRV
	for _, answer := range reply.Answer {
		if rrsrv, ok := answer.(*dns.SRV); ok {
			records = append(records, &net.SRV{
				Target:   rrsrv.Target,
				Port:     rrsrv.Port,
				Priority: rrsrv.Priority,
				Weight:   rrsrv.Weight,
			})
		}
	}
	if len(records) < 1 {
		return nil, srvconnect.ErrNoSRVRecords
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority < records[j].Priority
		}
		return records[i].Weight > records[j].Weight
	})
	return records, nil
}
