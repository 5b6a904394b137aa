package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"5601"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Addr returns the host:port listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Sanitize applies guardrails to HTTP server configuration.
func (c *HTTPConfig) Sanitize() {
	const (
		minPort = 1
		maxPort = 65535
	)
	if c.Port < minPort || c.Port > maxPort {
		c.Port = 5601
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}
