package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags listed
// here are passed to the flag set, so -c and any foreign flags are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-e", "-p", "-t", "-s", "-r"}, "-j")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "j", cfg.LogJSON, "log in JSON format")
	fs.StringVar(&cfg.AdminEmail, "e", cfg.AdminEmail, "bootstrap admin email")
	fs.StringVar(&cfg.AdminPassword, "p", cfg.AdminPassword, "bootstrap admin password")
	ttl := fs.Int("t", int(cfg.SessionTTL.Minutes()), "session lifetime (in minutes)")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "session signing key")
	fs.StringVar(&cfg.RecipeIDPolicy, "r", cfg.RecipeIDPolicy, "recipe id policy (counter, size)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t overrides; a JSON value like "90s" is not
	// representable in whole minutes.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.SessionTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
