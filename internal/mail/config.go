package mail

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TLS policies accepted by Config.TLS.
const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
	TLSNone          = "none"
)

// Config holds the SMTP relay and the sender identity used in templates.
// Mail is disabled when Username is empty: sends report failure without dialing.
type Config struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	FromAddress  string `toml:"from_address"`
	Company      string `toml:"company"`
	Tagline      string `toml:"tagline"`
	ContactEmail string `toml:"contact_email"`
	TLS          string `toml:"tls"`
	Timeout      string `toml:"timeout"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Host         string
	Port         string
	Username     string
	Password     string
	FromAddress  string
	ContactEmail string
}

// Enabled reports whether SMTP credentials were supplied.
func (c *Config) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// TimeoutDuration parses Timeout. Call after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Brand returns the sender identity rendered into templates.
func (c *Config) Brand() Brand {
	return Brand{Company: c.Company, Tagline: c.Tagline, ContactEmail: c.ContactEmail}
}

func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.FromAddress != "" {
		c.FromAddress = overlay.FromAddress
	}
	if overlay.Company != "" {
		c.Company = overlay.Company
	}
	if overlay.Tagline != "" {
		c.Tagline = overlay.Tagline
	}
	if overlay.ContactEmail != "" {
		c.ContactEmail = overlay.ContactEmail
	}
	if overlay.TLS != "" {
		c.TLS = overlay.TLS
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "smtp.gmail.com"
	}
	if c.Port == 0 {
		c.Port = 587
	}
	if c.FromAddress == "" {
		c.FromAddress = c.Username
	}
	if c.Company == "" {
		c.Company = "Luxury Automotive"
	}
	if c.Tagline == "" {
		c.Tagline = "Excellence in Every Detail"
	}
	if c.ContactEmail == "" {
		c.ContactEmail = c.FromAddress
	}
	if c.TLS == "" {
		c.TLS = TLSMandatory
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(env.Host, &c.Host)
	set(env.Username, &c.Username)
	set(env.Password, &c.Password)
	set(env.FromAddress, &c.FromAddress)
	set(env.ContactEmail, &c.ContactEmail)

	if env.Port != "" {
		if v := os.Getenv(env.Port); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.Port = port
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.TLS {
	case TLSMandatory, TLSOpportunistic, TLSNone:
	default:
		return fmt.Errorf("invalid tls policy: %q", c.TLS)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
