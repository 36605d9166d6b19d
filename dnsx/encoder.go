package dnsx

//
// Encode DNS queries to byte arrays
//

import "github.com/miekg/dns"

// dnsEncoderMiekg uses github.com/miekg/dns to encode SRV queries.
type dnsEncoderMiekg struct{}

// encodeSRV encodes a single SRV query for the given domain. It returns
// the raw query bytes and the query ID, which the decoder uses to match
// the reply to the query.
func (e *dnsEncoderMiekg) encodeSRV(domain string) ([]byte, uint16, error) {
	query := new(dns.Msg)
	query.Id = dns.Id()
	query.RecursionDesired = true
	query.Question = []dns.Question{{
		Name:   dns.Fqdn(domain),
		Qtype:  dns.TypeSRV,
		Qclass: dns.ClassINET,
	}}
	data, err := query.Pack()
	if err != nil {
		return nil, 0, err
	}
	return data, query.Id, nil
}
