package ctcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero recv window", func(c *Config) { c.RecvWindow = 0 }},
		{"negative recv window", func(c *Config) { c.RecvWindow = -1 }},
		{"zero send window", func(c *Config) { c.SendWindow = 0 }},
		{"zero rt timeout", func(c *Config) { c.RTTimeout = 0 }},
		{"negative timer interval", func(c *Config) { c.TimerInterval = -time.Second }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)
}
