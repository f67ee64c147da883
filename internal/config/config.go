// Package config loads the service options from command-line flags, the
// environment and an optional JSON file.
//
// Precedence, highest first: environment, flags, config file, defaults.
package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendD1     = "d1"
	BackendSQL    = "sql"
	BackendFile   = "file"
	BackendMemory = "memory"
)

const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// secretLength is the size of a generated session secret.
const secretLength = 32

var (
	// ErrInvalid marks an unusable combination of options.
	ErrInvalid = errors.New("invalid configuration")
	// ErrMissingSecret is returned in production when JWT_SECRET is unset.
	ErrMissingSecret = errors.New("JWT_SECRET is required in production")
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address,omitempty" envconfig:"SERVER_ADDRESS"`

	// ResultHostname is the public base URL of the service.
	ResultHostname string `json:"base_url,omitempty" envconfig:"BASE_URL"`

	// FilePath is the path to the JSON-lines journal.
	FilePath string `json:"file_storage_path,omitempty" envconfig:"FILE_STORAGE_PATH"`

	DatabaseDSN    string `json:"database_dsn,omitempty" envconfig:"DATABASE_DSN"`
	DatabaseDriver string `json:"database_driver,omitempty" envconfig:"DATABASE_DRIVER"`

	EnablePprof bool `json:"enable_pprof,omitempty" envconfig:"ENABLE_PPROF"`
	EnableHTTPS bool `json:"enable_https,omitempty" envconfig:"ENABLE_HTTPS"`

	// TrustedSubnet is a CIDR allowed to call the setup endpoint.
	TrustedSubnet string `json:"trusted_subnet,omitempty" envconfig:"TRUSTED_SUBNET"`
	// TrustedProxies are the CIDRs of reverse proxies whose X-Real-IP header
	// is believed. Comma separated in the environment.
	TrustedProxies []string `json:"trusted_proxies,omitempty" envconfig:"TRUSTED_PROXIES"`

	// GRPCPort enables the gRPC health server when non-zero.
	GRPCPort int `json:"grpc_port,omitempty" envconfig:"GRPC_PORT"`

	// Config is the path of the JSON config file.
	Config string `json:"-" envconfig:"CONFIG"`

	AppEnv   string `json:"app_env,omitempty" envconfig:"APP_ENV"`
	LogLevel string `json:"log_level,omitempty" envconfig:"LOG_LEVEL"`

	CFAccountID  string `json:"cf_account_id,omitempty" envconfig:"CF_ACCOUNT_ID"`
	CFDatabaseID string `json:"cf_database_id,omitempty" envconfig:"CF_DATABASE_ID"`
	CFAPIToken   string `json:"cf_api_token,omitempty" envconfig:"CF_API_TOKEN"`
	D1BaseURL    string `json:"d1_base_url,omitempty" envconfig:"D1_BASE_URL"`

	JWTSecret     string `json:"jwt_secret,omitempty" envconfig:"JWT_SECRET"`
	AdminUsername string `json:"admin_username,omitempty" envconfig:"ADMIN_USERNAME"`
	AdminPassword string `json:"admin_password,omitempty" envconfig:"ADMIN_PASSWORD"`

	NotifyWebhookURL string `json:"notify_webhook_url,omitempty" envconfig:"NOTIFY_WEBHOOK_URL"`
}

func defaults() Options {
	return Options{
		Port:           "localhost:8080",
		ResultHostname: "http://localhost:8080",
		AppEnv:         "development",
		LogLevel:       "info",
	}
}

// Parse reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs is Parse with explicit arguments.
func ParseArgs(args []string) (*Options, error) {
	var fl Options

	fs := flag.NewFlagSet("reviewer", flag.ContinueOnError)
	fs.StringVar(&fl.Port, "a", "", "run on ip:port server")
	fs.StringVar(&fl.ResultHostname, "b", "", "result base url")
	fs.StringVar(&fl.FilePath, "f", "", "path to storage file")
	fs.StringVar(&fl.DatabaseDSN, "d", "", "db address")
	fs.BoolVar(&fl.EnableHTTPS, "s", false, "enable https")
	fs.BoolVar(&fl.EnablePprof, "p", false, "enable pprof")
	fs.StringVar(&fl.TrustedSubnet, "t", "", "trusted subnet (CIDR)")
	fs.IntVar(&fl.GRPCPort, "g", 0, "grpc health port")
	fs.StringVar(&fl.Config, "c", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := defaults()

	path := fl.Config
	if env, ok := os.LookupEnv("CONFIG"); ok {
		path = env
	}
	if path != "" {
		if err := loadFile(path, &opts); err != nil {
			return nil, err
		}
		opts.Config = path
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			opts.Port = fl.Port
		case "b":
			opts.ResultHostname = fl.ResultHostname
		case "f":
			opts.FilePath = fl.FilePath
		case "d":
			opts.DatabaseDSN = fl.DatabaseDSN
		case "s":
			opts.EnableHTTPS = fl.EnableHTTPS
		case "p":
			opts.EnablePprof = fl.EnablePprof
		case "t":
			opts.TrustedSubnet = fl.TrustedSubnet
		case "g":
			opts.GRPCPort = fl.GRPCPort
		}
	})

	if err := envconfig.Process("", &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return &opts, nil
}

func loadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("%w: config %s: %v", ErrInvalid, path, err)
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (o *Options) IsProduction() bool {
	return strings.EqualFold(o.AppEnv, "production")
}

// Backend picks the store: D1 when any Cloudflare variable is set, then a
// SQL database, then the file journal, then memory.
func (o *Options) Backend() string {
	switch {
	case o.CFAccountID != "" || o.CFDatabaseID != "" || o.CFAPIToken != "":
		return BackendD1
	case o.DatabaseDSN != "":
		return BackendSQL
	case o.FilePath != "":
		return BackendFile
	default:
		return BackendMemory
	}
}

// SQLDriver returns the configured driver or guesses one from the DSN.
func (o *Options) SQLDriver() string {
	if o.DatabaseDriver != "" {
		return o.DatabaseDriver
	}

	dsn := strings.ToLower(o.DatabaseDSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return DriverPgx
	}
	return DriverSQLite
}

// TrustedNet parses TrustedSubnet. It returns nil when none is configured.
func (o *Options) TrustedNet() (*net.IPNet, error) {
	if o.TrustedSubnet == "" {
		return nil, nil
	}

	_, n, err := net.ParseCIDR(o.TrustedSubnet)
	if err != nil {
		return nil, fmt.Errorf("%w: trusted subnet: %v", ErrInvalid, err)
	}
	return n, nil
}

// ProxyNets parses TrustedProxies.
func (o *Options) ProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(o.TrustedProxies))
	for _, c := range o.TrustedProxies {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted proxy: %v", ErrInvalid, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// Validate reports option combinations the service cannot start with.
func (o *Options) Validate() error {
	if o.Backend() == BackendD1 {
		var missing []string
		if o.CFAccountID == "" {
			missing = append(missing, "CF_ACCOUNT_ID")
		}
		if o.CFDatabaseID == "" {
			missing = append(missing, "CF_DATABASE_ID")
		}
		if o.CFAPIToken == "" {
			missing = append(missing, "CF_API_TOKEN")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
		}
	}

	if o.Backend() == BackendSQL {
		switch o.SQLDriver() {
		case DriverPgx, DriverSQLite:
		default:
			return fmt.Errorf("%w: unsupported database driver %q", ErrInvalid, o.DatabaseDriver)
		}
	}

	if _, err := o.TrustedNet(); err != nil {
		return err
	}
	if _, err := o.ProxyNets(); err != nil {
		return err
	}

	if (o.AdminUsername == "") != (o.AdminPassword == "") {
		return fmt.Errorf("%w: ADMIN_USERNAME and ADMIN_PASSWORD must be set together", ErrInvalid)
	}

	if o.IsProduction() && o.JWTSecret == "" {
		return ErrMissingSecret
	}

	return nil
}

// SessionSecret returns the configured signing secret. Outside production a
// missing secret is replaced by a random one and generated is true;
// sessions then do not survive a restart.
func (o *Options) SessionSecret() (secret []byte, generated bool, err error) {
	if o.JWTSecret != "" {
		return []byte(o.JWTSecret), false, nil
	}

	if o.IsProduction() {
		return nil, false, ErrMissingSecret
	}

	secret = make([]byte, secretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, err
	}
	return secret, true, nil
}
