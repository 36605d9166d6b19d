package dnsx

import (
	"testing"

	"github.com/miekg/dns"
)

func TestEncodeSRV(t *testing.T) {
	encoder := &dnsEncoderMiekg{}
	data, queryID, err := encoder.encodeSRV("svc.example")
	if err != nil {
		t.Fatal(err)
	}
	query := new(dns.Msg)
	if err := query.Unpack(data); err != nil {
		t.Fatal(err)
	}
	if query.Id != queryID {
		t.Fatal("unexpected query ID", query.Id)
	}
	if !query.RecursionDesired {
		t.Fatal("expected recursion desired")
	}
	if len(query.Question) != 1 {
		t.Fatal("unexpected number of questions", len(query.Question))
	}
	question := query.Question[0]
	if question.Name != "svc.example." {
		t.Fatal("unexpected question name", question.Name)
	}
	if question.Qtype != dns.TypeSRV {
		t.Fatal("unexpected question type", question.Qtype)
	}
	if question.Qclass != dns.ClassINET {
		t.Fatal("unexpected question class", question.Qclass)
	}
}
