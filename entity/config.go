package entity

import "time"

type Config struct {
	PostgresConfig PostgresConfig `yaml:"database"`
	RedisConfig    RedisConfig    `yaml:"redis"`
	JWTSecretKey   []byte         `yaml:"jwt_secret"`
	Engine         EngineConfig   `yaml:"engine"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// CacheTTLSeconds bounds how long cached analysis reports are served.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// EngineConfig holds the tunables of the inventory engine.
type EngineConfig struct {
	ExpiringWindowDays   int `yaml:"expiring_window_days"`
	AnalysisWindowDays   int `yaml:"analysis_window_days"`
	RestockCoverDays     int `yaml:"restock_cover_days"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
}

// ApplyDefaults fills zero-valued engine tunables with their defaults.
func (e *EngineConfig) ApplyDefaults() {
	if e.ExpiringWindowDays <= 0 {
		e.ExpiringWindowDays = 3
	}
	if e.AnalysisWindowDays <= 0 {
		e.AnalysisWindowDays = 30
	}
	if e.RestockCoverDays <= 0 {
		e.RestockCoverDays = 7
	}
	if e.SweepIntervalMinutes <= 0 {
		e.SweepIntervalMinutes = 60
	}
}

// ExpiringWindow returns the lookahead used to flag items as expiring.
func (e EngineConfig) ExpiringWindow() time.Duration {
	return time.Duration(e.ExpiringWindowDays) * 24 * time.Hour
}

// AnalysisWindow returns the lookback used for usage/waste analytics.
func (e EngineConfig) AnalysisWindow() time.Duration {
	return time.Duration(e.AnalysisWindowDays) * 24 * time.Hour
}

func (e EngineConfig) SweepInterval() time.Duration {
	return time.Duration(e.SweepIntervalMinutes) * time.Minute
}
