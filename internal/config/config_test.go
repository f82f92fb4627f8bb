// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 100*time.Millisecond, c.TickPeriod)
	assert.Len(t, c.SimOptions(), 1)
	c.Seed = 42
	assert.Len(t, c.SimOptions(), 2)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigsim.yaml")
	src := "tickPeriod: 250ms\nlogLevel: debug\nlogFormat: json\nmetricsAddr: localhost:9100\nhistoryCap: 64\nseed: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	t.Setenv(EnvStreamAddr, ":8081")
	t.Setenv(EnvLogLevel, "warn")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.TickPeriod)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "localhost:9100", c.MetricsAddr)
	assert.Equal(t, ":8081", c.StreamAddr)
	assert.Equal(t, 64, c.HistoryCap)
	assert.Equal(t, int64(7), c.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	c := Default()
	require.NoError(t, c.FromEnv(env(map[string]string{EnvTickPeriod: "40"})))
	assert.Equal(t, 40*time.Millisecond, c.TickPeriod)
	require.NoError(t, c.FromEnv(env(map[string]string{EnvTickPeriod: "2s"})))
	assert.Equal(t, 2*time.Second, c.TickPeriod)
	assert.Error(t, c.FromEnv(env(map[string]string{EnvTickPeriod: "soon"})))
}

func TestValidate(t *testing.T) {
	td := []struct {
		name string
		mod  func(c *Config)
	}{
		{"period too short", func(c *Config) { c.TickPeriod = time.Microsecond }},
		{"period too long", func(c *Config) { c.TickPeriod = time.Hour }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"metrics addr", func(c *Config) { c.MetricsAddr = "nowhere" }},
		{"history cap", func(c *Config) { c.HistoryCap = 0 }},
	}
	for _, d := range td {
		c := Default()
		d.mod(c)
		assert.Error(t, c.Validate(), d.name)
	}
}
