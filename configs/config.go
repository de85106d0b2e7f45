package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PIZZERIA_"

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		GRPCAddr string `koanf:"grpc_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
		Timezone string `koanf:"timezone"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	Menu struct {
		Sizes []string `koanf:"sizes"`
	} `koanf:"menu"`

	Cart struct {
		SessionTTL time.Duration `koanf:"session_ttl"`
		ComboMin   int           `koanf:"combo_min"`
		ComboMax   int           `koanf:"combo_max"`
	} `koanf:"cart"`

	// Postgres is optional; without a DSN everything lives in memory.
	Postgres struct {
		DSN      string `koanf:"dsn"`
		MaxConns int32  `koanf:"max_conns"`
	} `koanf:"postgres"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Kafka struct {
		Brokers     []string `koanf:"brokers"`
		TopicEvents string   `koanf:"topic_events"`
		TopicRelay  string   `koanf:"topic_relay"`
	} `koanf:"kafka"`

	Outbox struct {
		BatchSize  int           `koanf:"batch_size"`
		Interval   time.Duration `koanf:"interval"`
		Lease      time.Duration `koanf:"lease"`
		MaxRetries int           `koanf:"max_retries"`
	} `koanf:"outbox"`

	Tracing struct {
		Endpoint string `koanf:"endpoint"`
	} `koanf:"tracing"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// Per-environment file is optional.
	if envName != "" {
		_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())
	}

	// PIZZERIA_POSTGRES__DSN -> postgres.dsn
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return errors.New("app.http_addr required")
	}
	if len(c.Menu.Sizes) == 0 {
		return errors.New("menu.sizes required")
	}
	if c.Cart.ComboMin < 2 {
		return fmt.Errorf("cart.combo_min must be at least 2, got %d", c.Cart.ComboMin)
	}
	if c.Cart.ComboMax != 0 && c.Cart.ComboMax < c.Cart.ComboMin {
		return fmt.Errorf("cart.combo_max %d below combo_min %d", c.Cart.ComboMax, c.Cart.ComboMin)
	}
	if c.Cart.SessionTTL <= 0 {
		return errors.New("cart.session_ttl must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if len(c.Kafka.Brokers) > 0 && (c.Kafka.TopicEvents == "" || c.Kafka.TopicRelay == "") {
		return errors.New("kafka.topic_events and kafka.topic_relay required when brokers are set")
	}
	return nil
}

// Location is the zone calendar-day statistics are computed in.
func (c Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}
