package httphandler

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver finds the originating client address of a request. The
// X-Forwarded-For and X-Real-IP headers are only believed when the direct peer
// is one of the trusted proxies; otherwise the peer address is the client.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver creates a resolver that trusts forwarding headers from
// peers inside the given prefixes. With no prefixes the headers are ignored.
func NewClientIPResolver(trusted []netip.Prefix) *ClientIPResolver {
	return &ClientIPResolver{trusted: trusted}
}

// ClientIP returns the client address for r. Behind trusted proxies it is the
// rightmost X-Forwarded-For hop that is not itself a trusted proxy.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !c.isTrusted(addr) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		client := addr
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			client = hop.Unmap()
			if !c.isTrusted(client) {
				break
			}
		}
		return client.String()
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return peer
}

func (c *ClientIPResolver) isTrusted(addr netip.Addr) bool {
	if c == nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
