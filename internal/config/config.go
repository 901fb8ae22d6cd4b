package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type DB struct {
	URL             string        `env:"DATABASE_URL,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
}

type HTTP struct {
	Port string `env:"PORT" envDefault:"8080"`
}

type Kafka struct {
	Enabled          bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	BootstrapServers string `env:"KAFKA_BOOTSTRAP_SERVERS" envDefault:"localhost:9092"`
	AuditTopic       string `env:"KAFKA_AUDIT_TOPIC" envDefault:"compliance.audit"`
}

// Scheduler cron specs use five-field syntax with an optional CRON_TZ=
// timezone prefix.
type Scheduler struct {
	NightlySpec   string        `env:"SCHEDULER_NIGHTLY_SPEC" envDefault:"CRON_TZ=Europe/Berlin 0 2 * * *"`
	WeeklySpec    string        `env:"SCHEDULER_WEEKLY_SPEC" envDefault:"CRON_TZ=Europe/Berlin 0 4 * * 1"`
	TenantTimeout time.Duration `env:"SCHEDULER_TENANT_TIMEOUT" envDefault:"2m"`
}

type Config struct {
	DB        DB
	HTTP      HTTP
	Kafka     Kafka
	Scheduler Scheduler
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
