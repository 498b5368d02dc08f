package cli

import (
	"fmt"

	"github.com/mcoot/mobboss/internal/config"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Flags holds the global flags. Empty values leave the environment setting alone.
type Flags struct {
	RPCURL   string
	APIKey   string
	InitData string
	Storage  string
	RedisURL string
	Output   string
	Verbose  bool
}

// DefaultFlags returns Flags with default values
func DefaultFlags() *Flags {
	return &Flags{
		Output: FormatText,
	}
}

// Apply layers the flags over cfg
func (f *Flags) Apply(cfg *config.Config) {
	overrideIfSet(&cfg.RPCURL, f.RPCURL)
	overrideIfSet(&cfg.APIKey, f.APIKey)
	overrideIfSet(&cfg.InitData, f.InitData)
	overrideIfSet(&cfg.Storage, f.Storage)
	overrideIfSet(&cfg.RedisURL, f.RedisURL)
	if f.Verbose {
		cfg.LogLevel = "debug"
	}
}

// Validate checks the flags that are not part of the environment config
func (f *Flags) Validate() error {
	switch f.Output {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid --output %q: must be 'text' or 'json'", f.Output)
	}
}

func overrideIfSet(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
