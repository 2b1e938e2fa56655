package documents

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the company identity and commercial defaults printed on
// generated documents.
type Config struct {
	Company          string     `toml:"company"`
	BasePrice        float64    `toml:"base_price"`
	GSTRate          float64    `toml:"gst_rate"`
	Items            []LineItem `toml:"items"`
	DeliveryLocation string     `toml:"delivery_location"`
	PaymentTerms     string     `toml:"payment_terms"`
	Customizations   []string   `toml:"customizations"`
	Jurisdiction     string     `toml:"jurisdiction"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Company   string
	BasePrice string
	GSTRate   string
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Company != "" {
		c.Company = overlay.Company
	}
	if overlay.BasePrice != 0 {
		c.BasePrice = overlay.BasePrice
	}
	if overlay.GSTRate != 0 {
		c.GSTRate = overlay.GSTRate
	}
	if len(overlay.Items) > 0 {
		c.Items = overlay.Items
	}
	if overlay.DeliveryLocation != "" {
		c.DeliveryLocation = overlay.DeliveryLocation
	}
	if overlay.PaymentTerms != "" {
		c.PaymentTerms = overlay.PaymentTerms
	}
	if len(overlay.Customizations) > 0 {
		c.Customizations = overlay.Customizations
	}
	if overlay.Jurisdiction != "" {
		c.Jurisdiction = overlay.Jurisdiction
	}
}

// Quotation returns the pricing used for generated quotations.
func (c *Config) Quotation() QuotationConfig {
	return QuotationConfig{BasePrice: c.BasePrice, GSTRate: c.GSTRate, Items: c.Items}
}

// Contract returns the terms used for generated contracts.
func (c *Config) Contract() ContractConfig {
	return ContractConfig{
		DeliveryLocation: c.DeliveryLocation,
		PaymentTerms:     c.PaymentTerms,
		Customizations:   c.Customizations,
		Jurisdiction:     c.Jurisdiction,
	}
}

func (c *Config) loadDefaults() {
	if c.Company == "" {
		c.Company = "Luxury Automotive"
	}
	if c.BasePrice == 0 {
		c.BasePrice = 100000000.0
	}
	if c.GSTRate == 0 {
		c.GSTRate = 0.28
	}
	if c.DeliveryLocation == "" {
		c.DeliveryLocation = "Mumbai Showroom"
	}
	if c.PaymentTerms == "" {
		c.PaymentTerms = "50% booking, 50% on delivery"
	}
	if c.Customizations == nil {
		c.Customizations = []string{"bespoke_interior", "two_tone_paint"}
	}
	if c.Jurisdiction == "" {
		c.Jurisdiction = "Mumbai"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Company != "" {
		if v := os.Getenv(env.Company); v != "" {
			c.Company = v
		}
	}
	if env.BasePrice != "" {
		if v := os.Getenv(env.BasePrice); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.BasePrice = f
			}
		}
	}
	if env.GSTRate != "" {
		if v := os.Getenv(env.GSTRate); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.GSTRate = f
			}
		}
	}
}

func (c *Config) validate() error {
	if c.BasePrice < 0 {
		return fmt.Errorf("base_price must be non-negative")
	}
	if c.GSTRate < 0 || c.GSTRate >= 1 {
		return fmt.Errorf("gst_rate must be in [0, 1)")
	}
	return nil
}
