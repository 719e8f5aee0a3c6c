package config

import (
	"context"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestReadEnvDefaults(t *testing.T) {
	assertion := assert.New(t)

	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SETTINGS_PROFILE", "")
	t.Setenv("ALPHA_API_DSN", "")
	t.Setenv("DEVTOOLS_TIMEOUT", "")
	t.Setenv("AUTO_START", "")

	env := ReadEnv()
	assertion.Equal(":8080", env.HttpAddr)
	assertion.Equal("default", env.SettingsProfile)
	assertion.Equal("https://www.binance.com", env.AlphaApiDsn)
	assertion.Equal(time.Second*15, env.DevToolsTimeout)
	assertion.False(env.AutoStart)
}

func TestReadEnvOverrides(t *testing.T) {
	assertion := assert.New(t)

	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SETTINGS_PROFILE", "night")
	t.Setenv("DEVTOOLS_TIMEOUT", "30")
	t.Setenv("HTTP_TIMEOUT", "abc")
	t.Setenv("AUTO_START", "true")

	env := ReadEnv()
	assertion.Equal(":9090", env.HttpAddr)
	assertion.Equal("night", env.SettingsProfile)
	assertion.Equal(time.Second*30, env.DevToolsTimeout)
	assertion.Equal(time.Second*20, env.HttpTimeout)
	assertion.True(env.AutoStart)
}

func TestContainerWithoutBackends(t *testing.T) {
	assertion := assert.New(t)

	container := InitServiceContainer(context.Background(), Env{HttpAddr: ":0", SettingsProfile: "default"})
	defer container.Close()

	assertion.Nil(container.Db)
	assertion.Nil(container.RDB)
	assertion.Nil(container.ClickHouse)
	assertion.False(container.Runner.IsRunning())

	health := container.HealthService.HealthCheck()
	assertion.Equal("disabled", health.DbStatus)
	assertion.Equal("disabled", health.RedisStatus)
	assertion.Equal("disconnected", health.PageStatus)
}
