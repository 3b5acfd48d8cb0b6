package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// StoreBackend selects where pinned words and history live.
type StoreBackend string

const (
	StoreAuto   StoreBackend = "auto"
	StoreRemote StoreBackend = "remote"
	StoreFile   StoreBackend = "file"
	StoreMemory StoreBackend = "memory"
)

// GeneratorBackend selects how words and answers are produced.
type GeneratorBackend string

const (
	GeneratorAuto GeneratorBackend = "auto"
	// GeneratorExternal calls the text model, with local fallbacks.
	GeneratorExternal GeneratorBackend = "external"
	// GeneratorDeterministic uses the curated list and the rule-based responder.
	GeneratorDeterministic GeneratorBackend = "deterministic"
	// GeneratorStatic uses the curated list and refuses questions.
	GeneratorStatic GeneratorBackend = "static"
)

// Config is resolved once at startup and handed to constructors.
// Variable names match the ones already used by deployments.
type Config struct {
	Env       string `envconfig:"ENV" default:"development"`
	Port      int    `envconfig:"PORT" default:"8080"`
	StaticDir string `envconfig:"STATIC_DIR" default:"public"`

	Timezone   string `envconfig:"GAME_TIMEZONE" default:"America/New_York"`
	Secret     string `envconfig:"WOTD_SECRET" default:""`
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`
	UsedWindow int    `envconfig:"USED_WORD_WINDOW" default:"200"`

	StoreBackend StoreBackend  `envconfig:"STORE_BACKEND" default:"auto"`
	KVURL        string        `envconfig:"KV_REST_API_URL" default:""`
	KVToken      string        `envconfig:"KV_REST_API_TOKEN" default:""`
	KVTimeout    time.Duration `envconfig:"KV_TIMEOUT" default:"5s"`
	DataDir      string        `envconfig:"DATA_DIR" default:"data"`

	GeneratorBackend GeneratorBackend `envconfig:"GENERATOR_BACKEND" default:"auto"`
	OpenAIKey        string           `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel      string           `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL    string           `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAITimeout    time.Duration    `envconfig:"OPENAI_TIMEOUT" default:"15s"`

	RateLimitRPS   int  `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int  `envconfig:"RATE_LIMIT_BURST" default:"10"`
	RollScheduler  bool `envconfig:"ROLL_SCHEDULER" default:"true"`
}

// New parses the environment and resolves the backends.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults turns "auto" backends into concrete ones and rejects
// explicit selections whose settings are missing.
func (c *Config) ResolveDefaults() error {
	switch c.StoreBackend {
	case "", StoreAuto:
		switch {
		case c.KVURL != "" && c.KVToken != "":
			c.StoreBackend = StoreRemote
		case dirWritable(c.DataDir):
			c.StoreBackend = StoreFile
		default:
			c.StoreBackend = StoreMemory
		}
	case StoreRemote:
		if c.KVURL == "" || c.KVToken == "" {
			return fmt.Errorf("STORE_BACKEND=remote requires KV_REST_API_URL and KV_REST_API_TOKEN")
		}
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("STORE_BACKEND=file requires DATA_DIR")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND: %s", c.StoreBackend)
	}

	switch c.GeneratorBackend {
	case "", GeneratorAuto:
		if c.OpenAIKey != "" {
			c.GeneratorBackend = GeneratorExternal
		} else {
			c.GeneratorBackend = GeneratorDeterministic
		}
	case GeneratorExternal:
		if c.OpenAIKey == "" {
			return fmt.Errorf("GENERATOR_BACKEND=external requires OPENAI_API_KEY")
		}
	case GeneratorDeterministic, GeneratorStatic:
	default:
		return fmt.Errorf("unsupported GENERATOR_BACKEND: %s", c.GeneratorBackend)
	}

	if c.UsedWindow <= 0 {
		c.UsedWindow = 200
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 1
	}
	return nil
}

// IsProduction reports whether ENV or GIN_MODE asks for production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || os.Getenv("GIN_MODE") == "release"
}

// HTTPAddr returns the listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ModelConfigured reports whether an external model key is present.
func (c *Config) ModelConfigured() bool {
	return c.GeneratorBackend == GeneratorExternal
}

// Log writes the resolved configuration without secrets.
func (c *Config) Log(log zerolog.Logger) {
	log.Info().
		Str("env", c.Env).
		Int("port", c.Port).
		Str("timezone", c.Timezone).
		Str("store_backend", string(c.StoreBackend)).
		Str("generator_backend", string(c.GeneratorBackend)).
		Str("openai_model", c.OpenAIModel).
		Bool("secret_present", c.Secret != "").
		Bool("admin_token_present", c.AdminToken != "").
		Bool("roll_scheduler", c.RollScheduler).
		Msg("Configuration loaded")
}

func dirWritable(dir string) bool {
	if dir == "" {
		return false
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	return true
}
