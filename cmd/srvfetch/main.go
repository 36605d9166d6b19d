// Command srvfetch connects to a URL through the SRV-preresolving
// connector and performs a minimal HTTP/1.1 GET, printing the status
// line it receives. It exists to demonstrate the library: it is not an
// HTTP client.
//
// For example:
//
//	srvfetch http://_http._tcp.mxtoolbox.com
//	srvfetch --resolver 8.8.8.8:53 http://_http._tcp.example.org/path
//	srvfetch --no-resolver https://example.org
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/netxkit/srvconnect"
	"github.com/netxkit/srvconnect/dnsx"
	"github.com/spf13/cobra"
)

func main() {
	fetcher := &fetcher{
		logger:       log.Log,
		noResolver:   false,
		resolverAddr: "",
		timeout:      30 * time.Second,
		verbose:      false,
	}

	cmd := &cobra.Command{
		Use:   "srvfetch URL",
		Short: "GET a URL resolving SRV records first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if fetcher.verbose {
				log.SetLevel(log.DebugLevel)
			}
			return fetcher.fetch(args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fetcher.resolverAddr, "resolver", "",
		"use a DNS-over-UDP resolver at this address instead of the system resolver")
	flags.BoolVar(&fetcher.noResolver, "no-resolver", false,
		"disable SRV preresolution entirely")
	flags.DurationVar(&fetcher.timeout, "timeout", 30*time.Second,
		"timeout for the whole operation")
	flags.BoolVarP(&fetcher.verbose, "verbose", "v", false,
		"emit debug messages")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fetcher performs a single GET through the adapter.
type fetcher struct {
	// logger is the MANDATORY logger.
	logger srvconnect.Logger

	// noResolver disables SRV preresolution.
	noResolver bool

	// resolverAddr optionally selects a DNS-over-UDP server.
	resolverAddr string

	// timeout bounds the whole operation.
	timeout time.Duration

	// verbose enables debug logging.
	verbose bool
}

func (f *fetcher) fetch(rawURL string) error {
	dst, err := srvconnect.ParseDestination(rawURL)
	if err != nil {
		return err
	}

	connector := srvconnect.New(
		srvconnect.NewSystemConnector(f.logger),
		f.newResolver(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	conn, err := connector.Call(ctx, dst)
	if err != nil {
		var svcErr *srvconnect.ServiceError
		if errors.As(err, &svcErr) {
			log.Errorf("%s failed: %s", svcErr.Operation, svcErr)
		}
		return err
	}
	defer conn.Close()
	log.Infof("connected to %s", conn.RemoteAddr())

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n",
		dst.PathAndQuery(), dst.Host())
	if err != nil {
		return err
	}
	status, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return err
	}
	log.Infof("%s", status)
	return nil
}

// newResolver maps the flags to the optional resolver: nil disables
// preresolution without changing the connector type.
func (f *fetcher) newResolver() srvconnect.Resolver {
	switch {
	case f.noResolver:
		return nil
	case f.resolverAddr != "":
		return dnsx.NewUDPResolver(f.logger, f.resolverAddr)
	default:
		return dnsx.NewSystemResolver(f.logger)
	}
}
