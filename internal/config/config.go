// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsAMQP  = "amqp"

	devJWTSecret = "dev-only-secret"
)

type Config struct {
	ServiceName     string
	Env             string
	Port            int
	LogLevel        string
	LogFile         string
	ShutdownTimeout time.Duration

	Store  StoreConfig
	Events EventsConfig
	Auth   AuthConfig
	HTTP   HTTPConfig

	AllowCancelDelivered bool
	TrackStock           bool
}

type StoreConfig struct {
	Driver            string
	MongoURI          string
	MongoDB           string
	MongoTransactions bool
	PostgresDSN       string
}

type EventsConfig struct {
	Driver       string
	KafkaBrokers string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
}

type AuthConfig struct {
	JWTSecret   string
	JWTTTL      time.Duration
	AdminEmails []string
	BcryptCost  int
}

type HTTPConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

func (c Config) IsDev() bool { return strings.EqualFold(c.Env, "dev") }

// Load reads .env when present, then the process environment. Variables
// already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults and validation.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}
	c := Config{
		ServiceName:     e.str("SERVICE_NAME", "shopsmart"),
		Env:             e.str("ENV", "dev"),
		Port:            e.int("PORT", 5100),
		LogLevel:        e.str("LOG_LEVEL", "info"),
		LogFile:         e.str("LOG_FILE", ""),
		ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Store: StoreConfig{
			Driver:            strings.ToLower(e.str("STORE_DRIVER", StoreMemory)),
			MongoURI:          e.str("MONGO_URI", ""),
			MongoDB:           e.str("MONGO_DB", "shopsmart"),
			MongoTransactions: e.bool("MONGO_TRANSACTIONS", false),
			PostgresDSN:       e.str("POSTGRES_DSN", ""),
		},
		Events: EventsConfig{
			Driver:       strings.ToLower(e.str("EVENTS_DRIVER", EventsNone)),
			KafkaBrokers: e.str("KAFKA_BROKERS", ""),
			KafkaTopic:   e.str("KAFKA_TOPIC", "shopsmart.orders"),
			AMQPURL:      e.str("AMQP_URL", ""),
			AMQPExchange: e.str("AMQP_EXCHANGE", "shopsmart.events"),
		},
		Auth: AuthConfig{
			JWTSecret:   e.str("JWT_SECRET", ""),
			JWTTTL:      e.duration("JWT_TTL", 24*time.Hour),
			AdminEmails: e.list("ADMIN_EMAILS"),
			BcryptCost:  e.int("BCRYPT_COST", 10),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   e.float("RATE_LIMIT_RPS", 20),
			RateLimitBurst: e.int("RATE_LIMIT_BURST", 40),
		},
		AllowCancelDelivered: e.bool("ALLOW_CANCEL_DELIVERED", false),
		TrackStock:           e.bool("TRACK_STOCK", false),
	}
	if len(e.errs) > 0 {
		return Config{}, errors.Join(e.errs...)
	}
	if c.Auth.JWTSecret == "" && c.IsDev() {
		c.Auth.JWTSecret = devJWTSecret
	}
	return c, c.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: PORT %d out of range", c.Port))
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("config: MONGO_URI is required for the mongo store"))
		}
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("config: POSTGRES_DSN is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver))
	}
	switch c.Events.Driver {
	case EventsNone:
	case EventsKafka:
		if c.Events.KafkaBrokers == "" {
			errs = append(errs, errors.New("config: KAFKA_BROKERS is required for kafka events"))
		}
	case EventsAMQP:
		if c.Events.AMQPURL == "" {
			errs = append(errs, errors.New("config: AMQP_URL is required for amqp events"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown EVENTS_DRIVER %q", c.Events.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is required outside ENV=dev"))
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) str(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return f
}

func (e *env) bool(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func (e *env) list(key string) []string {
	v, ok := e.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
