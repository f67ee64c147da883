package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/atinyakov/go-review-links/internal/app/server"
	grpcserver "github.com/atinyakov/go-review-links/internal/app/server/grpc"
	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/config"
	"github.com/atinyakov/go-review-links/internal/gateway"
	"github.com/atinyakov/go-review-links/internal/logger"
	"github.com/atinyakov/go-review-links/internal/repository"
	"github.com/atinyakov/go-review-links/internal/review"
	"github.com/atinyakov/go-review-links/internal/storage"
	"github.com/atinyakov/go-review-links/internal/worker"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

const shutdownTimeout = 10 * time.Second

type store interface {
	service.Storage
	io.Closer
}

func main() {
	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	options, err := config.Parse()
	if err != nil {
		panic(err)
	}
	if err := options.Validate(); err != nil {
		panic(err)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel, !options.IsProduction()); err != nil {
		panic(err)
	}
	defer log.Sync()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", "localhost:6060"))
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	s, err := openStorage(ctx, options, log)
	if err != nil {
		zapLogger.Fatal("Cannot open storage", zap.Error(err))
	}
	defer func() {
		if err := s.Close(); err != nil {
			zapLogger.Error("Cannot close storage", zap.Error(err))
		}
	}()

	secret, generated, err := options.SessionSecret()
	if err != nil {
		zapLogger.Fatal("Cannot obtain session secret", zap.Error(err))
	}
	if generated {
		zapLogger.Warn("JWT_SECRET is not set, using a random secret; sessions will not survive a restart")
	}

	auth, err := service.NewAuth(s, secret, log.Named("auth"))
	if err != nil {
		zapLogger.Fatal("Cannot create auth service", zap.Error(err))
	}
	if options.AdminUsername != "" {
		created, err := auth.CreateUser(ctx, options.AdminUsername, options.AdminPassword)
		switch {
		case err != nil:
			zapLogger.Fatal("Cannot create admin user", zap.Error(err))
		case created:
			zapLogger.Info("Admin user created", zap.String("username", options.AdminUsername))
		default:
			zapLogger.Info("Admin user already exists", zap.String("username", options.AdminUsername))
		}
	}

	var notifier service.Notifier
	var notifyDone <-chan struct{}
	if options.NotifyWebhookURL != "" {
		w := worker.NewNotifyWorker(log.Named("notify"), worker.NewWebhook(options.NotifyWebhookURL, nil), 0, 0)
		go w.Run(ctx)
		notifier = w
		notifyDone = w.Done()
	}

	links := service.NewLinks(s, service.NewSlugGenerator(service.SlugLength), log.Named("links"))
	feedback := service.NewFeedback(s, notifier, log.Named("feedback"))
	flow := review.New(links, feedback, log.Named("review"))

	proxies, err := options.ProxyNets()
	if err != nil {
		zapLogger.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	r := server.Init(server.Deps{
		Links:          links,
		Feedback:       feedback,
		Auth:           auth,
		Review:         flow,
		Logger:         zapLogger,
		TrustedSubnet:  options.TrustedSubnet,
		TrustedProxies: proxies,
		SecureCookies:  options.EnableHTTPS || options.IsProduction(),
	})

	var grpcSrv *grpcserver.Server
	if options.GRPCPort != 0 {
		trusted, err := options.TrustedNet()
		if err != nil {
			zapLogger.Fatal("Invalid trusted subnet", zap.Error(err))
		}
		grpcSrv = grpcserver.New(log.Named("grpc"), s, options.GRPCPort, trusted, proxies)
		go grpcSrv.Watch(ctx)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				zapLogger.Error("gRPC server stopped", zap.Error(err))
			}
		}()
	}

	srv := newHTTPServer(options, r)
	go func() {
		var err error
		if options.EnableHTTPS {
			zapLogger.Info("Server is running with TLS", zap.String("addr", srv.Addr))
			err = srv.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running",
				zap.String("addr", srv.Addr),
				zap.String("base_url", options.ResultHostname),
				zap.String("backend", options.Backend()),
			)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if notifyDone != nil {
		select {
		case <-notifyDone:
		case <-shutdownCtx.Done():
			zapLogger.Warn("Notification worker did not finish in time")
		}
	}
}

// openStorage selects the backend from the configuration. SQL backends get
// their schema created on startup.
func openStorage(ctx context.Context, o *config.Options, log *logger.Logger) (store, error) {
	l := log.Named("storage")

	switch o.Backend() {
	case config.BackendD1:
		l.Info("using Cloudflare D1", zap.String("database", o.CFDatabaseID))
		d1, err := gateway.NewD1(gateway.D1Config{
			AccountID:  o.CFAccountID,
			DatabaseID: o.CFDatabaseID,
			APIToken:   o.CFAPIToken,
			BaseURL:    o.D1BaseURL,
		}, nil, l)
		if err != nil {
			return nil, err
		}
		return initStore(ctx, repository.NewStore(d1, l))

	case config.BackendSQL:
		l.Info("using sql database", zap.String("driver", o.SQLDriver()))
		db, err := gateway.OpenSQL(ctx, o.SQLDriver(), o.DatabaseDSN, l)
		if err != nil {
			return nil, err
		}
		return initStore(ctx, repository.NewStore(db, l))

	case config.BackendFile:
		l.Info("using file", zap.String("filePath", o.FilePath))
		return storage.NewFileStorage(o.FilePath, l)

	default:
		l.Info("using in memory storage")
		return storage.CreateMemoryStorage()
	}
}

func initStore(ctx context.Context, s *repository.Store) (store, error) {
	if err := s.InitSchema(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func newHTTPServer(o *config.Options, h http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              o.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if !o.EnableHTTPS {
		return srv
	}

	hosts := []string{}
	if u, err := url.Parse(o.ResultHostname); err == nil && u.Hostname() != "" {
		hosts = append(hosts, u.Hostname())
	}
	manager := &autocert.Manager{
		Cache:      autocert.DirCache("cache-dir"),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(hosts...),
	}
	srv.Addr = ":443"
	srv.TLSConfig = manager.TLSConfig()
	return srv
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
