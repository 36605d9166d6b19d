package srvconnect

//
// Destination: the logical address of a connection attempt
//

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Destination is the logical address a connection attempt is directed at:
// an optional scheme, a required non-empty host, an optional port, and an
// optional path-and-query defaulting to "/".
//
// A Destination is immutable after construction. Rewriting a destination
// after SRV resolution always builds a new value.
type Destination struct {
	// scheme is the optional URI scheme (e.g., "http").
	scheme string

	// host is the required hostname or IP address.
	host string

	// port is the optional port. Empty means no explicit port.
	port string

	// pathAndQuery is the path plus optional query. Never empty.
	pathAndQuery string
}

// ErrEmptyHost indicates that a destination has no host.
var ErrEmptyHost = errors.New("destination: empty host")

// ErrInvalidPort indicates that a destination port is not a valid
// 16-bit unsigned integer.
var ErrInvalidPort = errors.New("destination: invalid port")

// ErrInvalidPath indicates that a destination path does not start
// with a slash.
var ErrInvalidPath = errors.New("destination: path does not start with slash")

// ErrInvalidAuthority indicates that the authority synthesized from an
// SRV record does not round-trip through URL parsing.
var ErrInvalidAuthority = errors.New("destination: invalid authority")

// NewDestination creates a Destination from its parts. The host is
// mandatory; scheme and port may be empty; an empty pathAndQuery
// defaults to "/".
func NewDestination(scheme, host, port, pathAndQuery string) (*Destination, error) {
	if host == "" {
		return nil, ErrEmptyHost
	}
	if port != "" {
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return nil, ErrInvalidPort
		}
	}
	if pathAndQuery == "" {
		pathAndQuery = "/"
	}
	if !strings.HasPrefix(pathAndQuery, "/") {
		return nil, ErrInvalidPath
	}
	return &Destination{
		scheme:       scheme,
		host:         host,
		port:         port,
		pathAndQuery: pathAndQuery,
	}, nil
}

// ParseDestination parses rawURL into a Destination.
func ParseDestination(rawURL string) (*Destination, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return DestinationFromURL(parsed)
}

// DestinationFromURL creates a Destination from an already parsed URL.
func DestinationFromURL(URL *url.URL) (*Destination, error) {
	pathAndQuery := URL.EscapedPath()
	if pathAndQuery == "" {
		pathAndQuery = "/"
	}
	if URL.RawQuery != "" {
		pathAndQuery += "?" + URL.RawQuery
	}
	return NewDestination(URL.Scheme, URL.Hostname(), URL.Port(), pathAndQuery)
}

// Scheme returns the optional scheme. Empty means no scheme.
func (d *Destination) Scheme() string {
	return d.scheme
}

// Host returns the host.
func (d *Destination) Host() string {
	return d.host
}

// Port returns the optional port. Empty means no explicit port.
func (d *Destination) Port() string {
	return d.port
}

// HasPort returns whether the destination carries an explicit port.
func (d *Destination) HasPort() bool {
	return d.port != ""
}

// PathAndQuery returns the path plus optional query.
func (d *Destination) PathAndQuery() string {
	return d.pathAndQuery
}

// HostPort returns "host:port" when a port is present and just
// the host otherwise.
func (d *Destination) HostPort() string {
	if d.port == "" {
		return d.host
	}
	return net.JoinHostPort(d.host, d.port)
}

// String returns the destination serialized as a URL.
func (d *Destination) String() string {
	URL := &url.URL{
		Scheme: d.scheme,
		Host:   d.HostPort(),
	}
	return URL.String() + d.pathAndQuery
}

// withSRV builds the rewritten Destination for the given SRV record: the
// authority becomes "record.Target:record.Port" while scheme and
// path-and-query carry over unchanged. The synthesized authority must
// round-trip through URL parsing, otherwise we fail.
func (d *Destination) withSRV(record *net.SRV) (*Destination, error) {
	target := strings.TrimSuffix(record.Target, ".")
	if target == "" {
		return nil, ErrInvalidAuthority
	}
	port := strconv.FormatUint(uint64(record.Port), 10)
	if err := validateAuthority(target, port); err != nil {
		return nil, err
	}
	return NewDestination(d.scheme, target, port, d.pathAndQuery)
}

// validateAuthority ensures that "host:port" survives URL parsing
// unmangled. DNS may hand us target names that are not valid URL hosts.
func validateAuthority(host, port string) error {
	authority := net.JoinHostPort(host, port)
	parsed, err := url.Parse("//" + authority)
	if err != nil {
		return ErrInvalidAuthority
	}
	if parsed.Hostname() != host || parsed.Port() != port {
		return ErrInvalidAuthority
	}
	return nil
}
