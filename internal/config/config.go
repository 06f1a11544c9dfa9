package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
)

// Config holds runtime settings for the recipekeeper console.
type Config struct {
	LogLevel       string
	LogJSON        bool
	AdminEmail     string
	AdminPassword  string
	SessionTTL     time.Duration
	SecretKey      string
	RecipeIDPolicy string
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.LogLevel = "info"
	c.LogJSON = false
	c.AdminEmail = "admin@example.com"
	c.AdminPassword = "Password123"
	c.SessionTTL = 60 * time.Minute
	c.SecretKey = ""
	c.RecipeIDPolicy = string(recipes.IDPolicyCounter)
}

// Validate reports the first setting that cannot be used as given.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", err, common.ErrorValidation)
	}
	if _, err := recipes.ParseIDPolicy(c.RecipeIDPolicy); err != nil {
		return fmt.Errorf("recipe id policy: %w", err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl %s: %w", c.SessionTTL, common.ErrorValidation)
	}
	if common.IsBlank(c.AdminEmail) || c.AdminPassword == "" {
		return fmt.Errorf("admin credentials: %w", common.ErrorValidation)
	}
	return nil
}

// Secret returns the session signing key, generating a random one when
// none is configured. The generated key is stored back into c.
func (c *Config) Secret() ([]byte, error) {
	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		c.SecretKey = key
	}
	return []byte(c.SecretKey), nil
}

// LoadConfig applies defaults, then JSON (if given), then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
