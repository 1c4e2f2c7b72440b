package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage modes for the intake queue.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Storage  StorageConfig  `yaml:"storage"`
	Obs      ObsConfig      `yaml:"obs"`
}

// TelegramConfig is the chat transport configuration. The token can be
// overridden with the BOT_TOKEN environment variable.
type TelegramConfig struct {
	Token          string        `yaml:"token"`
	PollTimeout    time.Duration `yaml:"-"`
	PollTimeoutRaw string        `yaml:"poll_timeout"`
}

// SheetsConfig points at the two spreadsheet exports used as
// directories. Every lookup refetches the sheet; there is no caching.
type SheetsConfig struct {
	EmployeesURL     string        `yaml:"employees_url"`
	TokensURL        string        `yaml:"tokens_url"`
	LookupTimeout    time.Duration `yaml:"-"`
	LookupTimeoutRaw string        `yaml:"lookup_timeout"`
}

// LedgerConfig is the webhook receiving finalized requests.
type LedgerConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// StorageConfig selects where the intake queue lives. The default
// memory mode matches the reference behavior: queue state does not
// survive a restart.
type StorageConfig struct {
	Mode     string         `yaml:"mode"`
	Database DatabaseConfig `yaml:"database"`
}

// ObsConfig is the metrics/health side listener.
type ObsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig is the PostgreSQL connection configuration, required
// only for the postgres storage mode.
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: telegram.token must be set (or BOT_TOKEN env)")
	}

	pollTimeout, err := parseDurationOrDefault(c.Telegram.PollTimeoutRaw, 30*time.Second)
	if err != nil {
		return fmt.Errorf("config: telegram.poll_timeout: %w", err)
	}
	c.Telegram.PollTimeout = pollTimeout

	if c.Sheets.EmployeesURL == "" {
		return fmt.Errorf("config: sheets.employees_url must be set")
	}
	if c.Sheets.TokensURL == "" {
		return fmt.Errorf("config: sheets.tokens_url must be set")
	}

	lookupTimeout, err := parseDurationOrDefault(c.Sheets.LookupTimeoutRaw, 20*time.Second)
	if err != nil {
		return fmt.Errorf("config: sheets.lookup_timeout: %w", err)
	}
	c.Sheets.LookupTimeout = lookupTimeout

	if c.Ledger.Enabled && c.Ledger.Endpoint == "" {
		return fmt.Errorf("config: ledger.endpoint must be set when ledger is enabled")
	}
	ledgerTimeout, err := parseDurationOrDefault(c.Ledger.TimeoutRaw, 15*time.Second)
	if err != nil {
		return fmt.Errorf("config: ledger.timeout: %w", err)
	}
	c.Ledger.Timeout = ledgerTimeout

	switch c.Storage.Mode {
	case "":
		c.Storage.Mode = StorageMemory
	case StorageMemory:
	case StoragePostgres:
		if err := c.Storage.Database.validateAndNormalize(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: storage.mode must be %q or %q", StorageMemory, StoragePostgres)
	}

	if c.Obs.ListenAddr == "" {
		c.Obs.ListenAddr = ":9090"
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: storage.database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: storage.database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: storage.database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: storage.database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: storage.database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationOrDefault(d.ConnMaxLifetimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: storage.database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationOrDefault(d.ConnMaxIdleTimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: storage.database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN returns the pgx connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
