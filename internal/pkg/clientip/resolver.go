// Package clientip resolves the originating client address of an HTTP request.
package clientip

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const (
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRealIP         = "X-Real-IP"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	trustAnyProxy        = "*"
)

// forwardingHeaders are consulted in this order.
var forwardingHeaders = []string{HeaderForwardedFor, HeaderRealIP, HeaderCFConnectingIP}

// Resolver extracts the client address, honouring forwarding headers only when the
// transport peer is a trusted proxy.
type Resolver struct {
	trusted  []netip.Prefix
	trustAll bool
}

// NewResolver builds a Resolver from a list of proxy addresses or CIDR ranges.
// The entry "*" trusts every peer.
func NewResolver(trustedProxies []string) (*Resolver, error) {
	r := &Resolver{}
	for _, entry := range trustedProxies {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
			continue
		case entry == trustAnyProxy:
			r.trustAll = true
		case strings.Contains(entry, "/"):
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy range %q: %w", entry, err)
			}
			r.trusted = append(r.trusted, prefix.Masked())
		default:
			addr, err := netip.ParseAddr(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy address %q: %w", entry, err)
			}
			addr = addr.Unmap()
			r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return r, nil
}

// Resolve returns the best-effort client address for req, or "" for a nil request.
func (r *Resolver) Resolve(req *http.Request) string {
	if req == nil {
		return ""
	}

	peer := peerAddress(req.RemoteAddr)
	if !r.trusts(peer) {
		return peer
	}

	for _, header := range forwardingHeaders {
		value := req.Header.Get(header)
		if header == HeaderForwardedFor {
			value, _, _ = strings.Cut(value, ",")
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return peer
}

func (r *Resolver) trusts(peer string) bool {
	if r.trustAll {
		return true
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range r.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func peerAddress(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
