package intercepters

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func TestSubnetIPInterceptor(t *testing.T) {
	echo := func(ctx context.Context, _ interface{}) (interface{}, error) {
		ip, _ := ctx.Value(RealIPKey).(string)
		return ip, nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	cases := map[string]struct {
		ctx  context.Context
		want string
	}{
		"forwarded":     {metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "192.168.1.100")), "192.168.1.100"},
		"first wins":    {metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "10.0.0.1", "x-real-ip", "10.0.0.2")), "10.0.0.1"},
		"empty header":  {metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-real-ip", "")), ""},
		"no metadata":   {context.Background(), ""},
		"other headers": {metadata.NewIncomingContext(context.Background(), metadata.Pairs("user-agent", "probe")), ""},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := SubnetIPInterceptor(c.ctx, nil, info, echo)
			require.NoError(t, err)
			assert.Equal(t, c.want, resp)
		})
	}
}

func callCtx(peerIP, realIP string) context.Context {
	ctx := context.Background()
	if peerIP != "" {
		ctx = peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP(peerIP), Port: 4000}})
	}
	if realIP != "" {
		ctx = context.WithValue(ctx, RealIPKey, realIP)
	}
	return ctx
}

func TestTrustedSubnet(t *testing.T) {
	_, trusted, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	_, proxy, err := net.ParseCIDR("172.16.0.0/12")
	require.NoError(t, err)
	proxies := []*net.IPNet{proxy}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	tests := []struct {
		name    string
		subnet  *net.IPNet
		ctx     context.Context
		allowed bool
	}{
		{"no subnet configured", nil, context.Background(), true},
		{"peer inside", trusted, callCtx("10.9.9.9", ""), true},
		{"peer outside", trusted, callCtx("192.168.1.1", ""), false},
		{"spoofed metadata from public peer", trusted, callCtx("203.0.113.5", "10.1.2.3"), false},
		{"metadata without peer", trusted, callCtx("", "10.1.2.3"), false},
		{"proxy forwards insider", trusted, callCtx("172.16.0.2", "10.1.2.3"), true},
		{"proxy forwards outsider", trusted, callCtx("172.16.0.2", "192.168.1.1"), false},
		{"unknown caller", trusted, context.Background(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := TrustedSubnet(tt.subnet, proxies)(tt.ctx, nil, info, handler)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}

			assert.Equal(t, codes.PermissionDenied, status.Code(err))
		})
	}
}
