package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"parcellocker/internal/adapters/out/postgres"
	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/domain/services"
	"parcellocker/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	LogLevel string

	DBDriver       string
	DBDsn          string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int

	KafkaBrokers         []string
	KafkaPassIssuedTopic string

	PassTTL              time.Duration
	HoldPeriod           time.Duration
	ExpiryBatchSize      int
	PassCleanupSchedule  string
	ParcelExpirySchedule string

	RateLimit           float64
	RateBurst           int
	RateLimitIdle       time.Duration
	TrustedProxies      []*net.IPNet
	MaxPickupFailures   int
	PickupLockoutWindow time.Duration

	LockersFile string
}

// LoadConfig reads envFile if it exists, then the environment. Unset
// variables take their defaults; malformed ones are reported together.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var p envParser
	cfg := Config{
		HTTPPort: p.str("HTTP_PORT", "8080"),
		LogLevel: p.str("LOG_LEVEL", "info"),

		DBDriver:       p.str("DB_DRIVER", postgres.DriverPostgres),
		DBDsn:          p.str("DB_DSN", ""),
		DBHost:         p.str("DB_HOST", "localhost"),
		DBPort:         p.str("DB_PORT", "5432"),
		DBUser:         p.str("DB_USER", "postgres"),
		DBPassword:     p.str("DB_PASSWORD", ""),
		DBName:         p.str("DB_NAME", "parcellocker"),
		DBSslMode:      p.str("DB_SSLMODE", "disable"),
		DBMaxOpenConns: p.integer("DB_MAX_OPEN_CONNS", 20),

		KafkaBrokers:         p.list("KAFKA_BROKERS"),
		KafkaPassIssuedTopic: p.str("KAFKA_PASS_ISSUED_TOPIC", "parcel.pass-issued"),

		PassTTL:              p.duration("PASS_TTL", services.DefaultPassTTL),
		HoldPeriod:           p.duration("HOLD_PERIOD", commands.DefaultHoldPeriod),
		ExpiryBatchSize:      p.integer("EXPIRY_BATCH_SIZE", jobs.DefaultConfig.ExpiryBatchSize),
		PassCleanupSchedule:  p.str("PASS_CLEANUP_SCHEDULE", jobs.DefaultConfig.PassCleanupSchedule),
		ParcelExpirySchedule: p.str("PARCEL_EXPIRY_SCHEDULE", jobs.DefaultConfig.ParcelExpirySchedule),

		RateLimit:           p.decimal("RATE_LIMIT", 5),
		RateBurst:           p.integer("RATE_BURST", 10),
		RateLimitIdle:       p.duration("RATE_LIMIT_IDLE", 0),
		TrustedProxies:      p.cidrs("TRUSTED_PROXIES"),
		MaxPickupFailures:   p.integer("MAX_PICKUP_FAILURES", 5),
		PickupLockoutWindow: p.duration("PICKUP_LOCKOUT_WINDOW", 15*time.Minute),

		LockersFile: p.str("LOCKERS_FILE", "configs/lockers.yaml"),
	}

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DatabaseConfig builds the connection settings. DB_DSN wins over the
// individual DB_* parts.
func (c Config) DatabaseConfig() postgres.Config {
	dsn := c.DBDsn
	if dsn == "" {
		switch c.DBDriver {
		case postgres.DriverSQLite:
			dsn = "parcellocker.db"
		default:
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
		}
	}

	return postgres.Config{
		Driver:          c.DBDriver,
		DSN:             dsn,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

func (c Config) JobsConfig() jobs.Config {
	return jobs.Config{
		PassCleanupSchedule:  c.PassCleanupSchedule,
		ParcelExpirySchedule: c.ParcelExpirySchedule,
		HoldPeriod:           c.HoldPeriod,
		ExpiryBatchSize:      c.ExpiryBatchSize,
	}
}

type envParser struct {
	errs []error
}

func (p *envParser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *envParser) list(key string) []string {
	var out []string
	for _, item := range strings.Split(p.str(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// cidrs accepts CIDR ranges and bare addresses, which are read as a
// single-host range.
func (p *envParser) cidrs(key string) []*net.IPNet {
	var out []*net.IPNet
	for _, item := range p.list(key) {
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				p.errs = append(p.errs, fmt.Errorf("%s: invalid address %q", key, item))
				continue
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, n, err := net.ParseCIDR(item)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		out = append(out, n)
	}
	return out
}

func (p *envParser) integer(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (p *envParser) decimal(key string, def float64) float64 {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}
