package main

import (
	"fmt"
	"strings"
	"time"

	adtpulse "github.com/bobomb/hass-adtpulse"
)

type Config struct {
	Username     string        `env:"USERNAME,notEmpty"`
	Password     string        `env:"PASSWORD,notEmpty"`
	Fingerprint  string        `env:"FINGERPRINT,notEmpty"`
	Region       string        `env:"REGION"        envDefault:"us"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	Address      string        `env:"LISTEN"        envDefault:":8099"`
	StateDir     string        `env:"STATE_DIR"     envDefault:"./db"`
}

// serviceHost resolves the configured region to a Pulse portal endpoint.
func (c Config) serviceHost() (string, error) {
	switch strings.ToLower(c.Region) {
	case "us":
		return adtpulse.HostUS, nil
	case "ca":
		return adtpulse.HostCA, nil
	default:
		return "", fmt.Errorf("unknown region %q, expected us or ca", c.Region)
	}
}

func (c Config) entry(host string) adtpulse.Entry {
	return adtpulse.Entry{
		Username:    c.Username,
		Password:    c.Password,
		Fingerprint: c.Fingerprint,
		Host:        host,
	}
}
