package intercepters

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type contextKey string

const RealIPKey contextKey = "real-ip"

// SubnetIPInterceptor copies the x-real-ip metadata into the context. The
// value is only informational until TrustedSubnet checks where it came from.
func SubnetIPInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if ips := md.Get("x-real-ip"); len(ips) > 0 {
			ctx = context.WithValue(ctx, RealIPKey, ips[0])
		}
	}
	return handler(ctx, req)
}

// callerIP returns the transport peer address. The x-real-ip value recorded
// by SubnetIPInterceptor replaces it only when the peer is one of proxies.
func callerIP(ctx context.Context, proxies []*net.IPNet) net.IP {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return nil
	}

	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !fromProxy(proxies, ip) {
		return ip
	}

	if fwd, ok := ctx.Value(RealIPKey).(string); ok && fwd != "" {
		return net.ParseIP(fwd)
	}
	return ip
}

func fromProxy(proxies []*net.IPNet, ip net.IP) bool {
	for _, n := range proxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// TrustedSubnet rejects callers outside trusted with PermissionDenied. A nil
// subnet lets everyone through. It must run after SubnetIPInterceptor.
func TrustedSubnet(trusted *net.IPNet, proxies []*net.IPNet) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if trusted == nil {
			return handler(ctx, req)
		}

		ip := callerIP(ctx, proxies)
		if ip == nil || !trusted.Contains(ip) {
			return nil, status.Error(codes.PermissionDenied, "caller is outside the trusted subnet")
		}

		return handler(ctx, req)
	}
}
