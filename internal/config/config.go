package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://backend-yhta.onrender.com"

type Config struct {
	API struct {
		BaseURL string `yaml:"baseUrl"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Session struct {
		Backend string `yaml:"backend"` // file | redis | memory
		Path    string `yaml:"path"`
		TTL     string `yaml:"ttl"`
	} `yaml:"session"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Size     int    `yaml:"size"`
		CacheTTL string `yaml:"cacheTtl"`
	} `yaml:"quiz"`
	OpenAI struct {
		BaseURL string `yaml:"baseUrl"`
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"openai"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
}

// Load reads YAML config from path, then applies .env and environment
// overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	fillDefaults(&cfg)
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{}
	fillDefaults(&cfg)
	return cfg
}

func fillDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = "15s"
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "file"
	}
	if cfg.Session.Path == "" {
		cfg.Session.Path = defaultSessionPath()
	}
	if cfg.Quiz.Size <= 0 {
		cfg.Quiz.Size = 10
	}
	if cfg.Quiz.CacheTTL == "" {
		cfg.Quiz.CacheTTL = "5m"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4"
	}
	if cfg.OpenAI.Timeout == "" {
		cfg.OpenAI.Timeout = "60s"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = "dev"
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.API.BaseURL, "TRIVIA_API_URL")
	setString(&cfg.Session.Backend, "TRIVIA_SESSION_BACKEND")
	setString(&cfg.Session.Path, "TRIVIA_SESSION_PATH")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.Log.Mode, "LOG_MODE")
	setString(&cfg.Server.Port, "PORT")
	if v := os.Getenv("TRIVIA_QUIZ_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Quiz.Size = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".trivia", "session.yaml")
	}
	return filepath.Join(home, ".trivia", "session.yaml")
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
