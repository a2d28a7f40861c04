package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`

	MLBStats MLBStatsConfig `mapstructure:"mlb_stats"`
	OddsAPI  OddsAPIConfig  `mapstructure:"odds_api"`
	APISport APISportConfig `mapstructure:"api_sports"`

	Generation GenerationConfig `mapstructure:"generation"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	QnA        QnAConfig        `mapstructure:"qna"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DailyTasks string `mapstructure:"daily_tasks"`
	Settlement string `mapstructure:"settlement"`
}

// SchedulerConfig covers the external trigger surface: the shared secret the
// cron caller must present, and the reference timezone that anchors the
// trading day used for pick deduplication.
type SchedulerConfig struct {
	Secret            string `mapstructure:"secret"`
	ReferenceTimezone string `mapstructure:"reference_timezone"`
}

type MLBStatsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	RPS     float64       `mapstructure:"rps"`
}

type OddsAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Region  string        `mapstructure:"region"`
	Market  string        `mapstructure:"market"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type APISportConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GenerationConfig struct {
	NFLSeason int `mapstructure:"nfl_season"`
	NFLWeek   int `mapstructure:"nfl_week"`

	// NFLRankings overrides the built-in power-ranking table when present.
	// Keys are mascot names ("Eagles"), values are 1-based ranks.
	NFLRankings map[string]int `mapstructure:"nfl_rankings"`
}

type SettlementConfig struct {
	BatchLimit int `mapstructure:"batch_limit"`
}

type QnAConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PICKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.daily_tasks", "0 0 9 * * *")
	v.SetDefault("cron.settlement", "0 0 */2 * * *")
	v.SetDefault("scheduler.reference_timezone", "America/New_York")
	v.SetDefault("mlb_stats.base_url", "https://statsapi.mlb.com")
	v.SetDefault("mlb_stats.timeout", "15s")
	v.SetDefault("mlb_stats.rps", 5)
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds_api.region", "us")
	v.SetDefault("odds_api.market", "h2h")
	v.SetDefault("odds_api.timeout", "15s")
	v.SetDefault("api_sports.base_url", "https://v1.american-football.api-sports.io")
	v.SetDefault("api_sports.timeout", "15s")
	v.SetDefault("generation.nfl_season", 2025)
	v.SetDefault("generation.nfl_week", 3)
	v.SetDefault("settlement.batch_limit", 200)
	v.SetDefault("qna.enabled", true)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports configuration problems that should fail startup outright.
// Missing provider keys are not fatal here: the affected tasks degrade and
// report themselves, so one bad credential cannot take down the whole batch.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DB.DSN) == "" {
		return fmt.Errorf("config: db.dsn is required")
	}
	if strings.TrimSpace(c.Scheduler.ReferenceTimezone) == "" {
		return fmt.Errorf("config: scheduler.reference_timezone is required")
	}
	if _, err := time.LoadLocation(c.Scheduler.ReferenceTimezone); err != nil {
		return fmt.Errorf("config: invalid scheduler.reference_timezone: %w", err)
	}
	return nil
}
