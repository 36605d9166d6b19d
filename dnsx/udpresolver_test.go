package dnsx

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/netxkit/srvconnect"
	"github.com/netxkit/srvconnect/internal/testingx"
)

// newTestServer starts a local DNS server and returns a UDP resolver
// pointed at it. The caller owns closing the listener.
func newTestServer(t *testing.T, server *testingx.DNSServer) (srvconnect.Resolver, testingx.DNSListener) {
	t.Helper()
	listener, err := server.Start("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	return NewUDPResolver(nil, listener.LocalAddr().String()), listener
}

func TestUDPResolverLookupSRV(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		server := &testingx.DNSServer{
			Records: map[string][]*net.SRV{
				"svc.example.": {
					{Target: "backup.example.", Port: 9443, Priority: 10, Weight: 0},
					{Target: "h2.example.", Port: 8443, Priority: 0, Weight: 0},
				},
			},
			OnQuery: func(domain string) testingx.DNSAction {
				return testingx.DNSActionRecords
			},
		}
		resolver, listener := newTestServer(t, server)
		defer listener.Close()
		records, err := resolver.LookupSRV(context.Background(), "svc.example")
		if err != nil {
			t.Fatal(err)
		}
		expected := []*net.SRV{
			{Target: "h2.example.", Port: 8443, Priority: 0, Weight: 0},
			{Target: "backup.example.", Port: 9443, Priority: 10, Weight: 0},
		}
		if diff := cmp.Diff(expected, records); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with NXDOMAIN", func(t *testing.T) {
		server := &testingx.DNSServer{
			OnQuery: func(domain string) testingx.DNSAction {
				return testingx.DNSActionNXDOMAIN
			},
		}
		resolver, listener := newTestServer(t, server)
		defer listener.Close()
		records, err := resolver.LookupSRV(context.Background(), "svc.example")
		if !errors.Is(err, srvconnect.ErrNoSRVRecords) {
			t.Fatal("not the error we expected", err)
		}
		if records != nil {
			t.Fatal("expected nil records")
		}
	})

	t.Run("with an empty reply", func(t *testing.T) {
		server := &testingx.DNSServer{
			OnQuery: func(domain string) testingx.DNSAction {
				return testingx.DNSActionNoAnswer
			},
		}
		resolver, listener := newTestServer(t, server)
		defer listener.Close()
		if _, err := resolver.LookupSRV(context.Background(), "svc.example"); !errors.Is(err, srvconnect.ErrNoSRVRecords) {
			t.Fatal("not the error we expected", err)
		}
	})

	t.Run("with SERVFAIL", func(t *testing.T) {
		server := &testingx.DNSServer{
			OnQuery: func(domain string) testingx.DNSAction {
				return testingx.DNSActionServfail
			},
		}
		resolver, listener := newTestServer(t, server)
		defer listener.Close()
		if _, err := resolver.LookupSRV(context.Background(), "svc.example"); !errors.Is(err, ErrDNSServfail) {
			t.Fatal("not the error we expected", err)
		}
	})

	t.Run("with a server that never replies", func(t *testing.T) {
		server := &testingx.DNSServer{
			OnQuery: func(domain string) testingx.DNSAction {
				return testingx.DNSActionTimeout
			},
		}
		resolver, listener := newTestServer(t, server)
		defer listener.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		records, err := resolver.LookupSRV(ctx, "svc.example")
		if err == nil {
			t.Fatal("expected an error here")
		}
		if records != nil {
			t.Fatal("expected nil records")
		}
	})
}
