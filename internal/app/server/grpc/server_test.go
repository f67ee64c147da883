package grpc_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcserver "github.com/atinyakov/go-review-links/internal/app/server/grpc"
)

type fakeStore struct {
	err error
}

func (f *fakeStore) PingContext(context.Context) error {
	return f.err
}

func startServer(t *testing.T, store grpcserver.Pinger, trusted *net.IPNet) (*grpcserver.Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
	return serve(t, grpcserver.New(zap.NewNop(), store, 0, trusted, nil), lis, "passthrough:///bufnet", grpc.WithContextDialer(dialer))
}

// startTCPServer listens on loopback so that the caller has a real peer
// address.
func startTCPServer(t *testing.T, trusted *net.IPNet, proxies []*net.IPNet) healthpb.HealthClient {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	_, client := serve(t, grpcserver.New(zap.NewNop(), &fakeStore{}, 0, trusted, proxies), lis, lis.Addr().String())
	return client
}

func serve(t *testing.T, srv *grpcserver.Server, lis net.Listener, target string, opts ...grpc.DialOption) (*grpcserver.Server, healthpb.HealthClient) {
	t.Helper()

	go func() {
		_ = srv.Serve(lis)
	}()

	opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	conn, err := grpc.NewClient(target, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.GracefulStop()
	})

	return srv, healthpb.NewHealthClient(conn)
}

func TestHealth_ReflectsStore(t *testing.T) {
	store := &fakeStore{}
	srv, client := startServer(t, store, nil)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpcserver.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.Probe(ctx))

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpcserver.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	store.err = errors.New("connection refused")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.Probe(ctx))

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestHealth_UnknownService(t *testing.T) {
	_, client := startServer(t, &fakeStore{}, nil)

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "shortener"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func mustCIDR(t *testing.T, c string) *net.IPNet {
	t.Helper()
	_, n, err := net.ParseCIDR(c)
	require.NoError(t, err)
	return n
}

func TestHealth_TrustedSubnet(t *testing.T) {
	req := &healthpb.HealthCheckRequest{Service: grpcserver.ServiceName}
	spoofed := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "10.0.0.5")

	t.Run("peer inside", func(t *testing.T) {
		client := startTCPServer(t, mustCIDR(t, "127.0.0.0/8"), nil)
		_, err := client.Check(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("metadata from untrusted peer", func(t *testing.T) {
		client := startTCPServer(t, mustCIDR(t, "10.0.0.0/8"), nil)
		_, err := client.Check(spoofed, req)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("metadata from trusted proxy", func(t *testing.T) {
		client := startTCPServer(t, mustCIDR(t, "10.0.0.0/8"), []*net.IPNet{mustCIDR(t, "127.0.0.0/8")})
		_, err := client.Check(spoofed, req)
		assert.NoError(t, err)

		outside := metadata.AppendToOutgoingContext(context.Background(), "x-real-ip", "203.0.113.9")
		_, err = client.Check(outside, req)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("bufconn peer has no address", func(t *testing.T) {
		_, client := startServer(t, &fakeStore{}, mustCIDR(t, "10.0.0.0/8"))
		_, err := client.Check(spoofed, req)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})
}
