package middleware

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ClientIP returns the connection address of r. The X-Real-IP header is
// used instead only when the connection comes from one of proxies.
func ClientIP(r *http.Request, proxies []*net.IPNet) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer := net.ParseIP(host)
	if peer == nil || !containsIP(proxies, peer) {
		return peer
	}

	if h := strings.TrimSpace(r.Header.Get("X-Real-IP")); h != "" {
		return net.ParseIP(h)
	}
	return peer
}

func containsIP(nets []*net.IPNet, ip net.IP) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// WithSubnet lets through only clients inside the trusted CIDR. An empty
// or invalid subnet closes the route entirely.
func WithSubnet(subnet string, proxies []*net.IPNet, logger *zap.Logger) func(next http.Handler) http.Handler {
	var trusted *net.IPNet
	if subnet != "" {
		_, n, err := net.ParseCIDR(subnet)
		if err != nil {
			logger.Warn("invalid trusted subnet", zap.String("subnet", subnet), zap.Error(err))
		} else {
			trusted = n
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, proxies)
			if trusted == nil || ip == nil || !trusted.Contains(ip) {
				logger.Warn("request outside trusted subnet",
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
