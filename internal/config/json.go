package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
	"github.com/dmitrijs2005/recipekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from zero values so only keys present in the file override
// the defaults.
type JsonConfig struct {
	LogLevel       *string         `json:"log_level"`
	LogJSON        *bool           `json:"log_json"`
	AdminEmail     *string         `json:"admin_email"`
	AdminPassword  *string         `json:"admin_password"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	SecretKey      *string         `json:"secret_key"`
	RecipeIDPolicy *string         `json:"recipe_id_policy"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogJSON != nil {
		cfg.LogJSON = *jc.LogJSON
	}
	if jc.AdminEmail != nil {
		cfg.AdminEmail = *jc.AdminEmail
	}
	if jc.AdminPassword != nil {
		cfg.AdminPassword = *jc.AdminPassword
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.RecipeIDPolicy != nil {
		cfg.RecipeIDPolicy = *jc.RecipeIDPolicy
	}
}
