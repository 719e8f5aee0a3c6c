package config

import (
	"gitlab.com/open-soft/go-alpha-bot/src/client"
	"log"
	"os"
	"strconv"
	"time"
)

func getEnv(name string, fallback string) string {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}

	return value
}

func getEnvDuration(name string, fallback time.Duration) time.Duration {
	value := os.Getenv(name)
	if len(value) == 0 {
		return fallback
	}

	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Env %s is not a number of seconds: %s", name, value)
		return fallback
	}

	return time.Second * time.Duration(seconds)
}

// Env is read once at start. Empty DSNs turn the matching backend off.
type Env struct {
	DatabaseDsn     string
	RedisDsn        string
	RedisPassword   string
	ClickHouseDsn   string
	AlphaApiDsn     string
	DevToolsWsDsn   string
	HttpAddr        string
	SettingsProfile string
	AccessToken     string
	DevToolsTimeout time.Duration
	HttpTimeout     time.Duration
	AutoStart       bool
}

func ReadEnv() Env {
	return Env{
		DatabaseDsn:     os.Getenv("DATABASE_DSN"),
		RedisDsn:        os.Getenv("REDIS_DSN"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ClickHouseDsn:   os.Getenv("CLICKHOUSE_DSN"),
		AlphaApiDsn:     getEnv("ALPHA_API_DSN", client.DefaultAlphaApiDsn),
		DevToolsWsDsn:   os.Getenv("DEVTOOLS_WS_DSN"),
		HttpAddr:        getEnv("HTTP_ADDR", ":8080"),
		SettingsProfile: getEnv("SETTINGS_PROFILE", "default"),
		AccessToken:     os.Getenv("ACCESS_TOKEN"),
		DevToolsTimeout: getEnvDuration("DEVTOOLS_TIMEOUT", time.Second*15),
		HttpTimeout:     getEnvDuration("HTTP_TIMEOUT", time.Second*20),
		AutoStart:       os.Getenv("AUTO_START") == "true",
	}
}
