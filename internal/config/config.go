package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Paystack struct {
		SecretKey    string  `yaml:"secret_key"`
		PublicKey    string  `yaml:"public_key"`
		BaseURL      string  `yaml:"base_url"`
		CallbackURL  string  `yaml:"callback_url"`
		Currency     string  `yaml:"currency"`      // settlement currency sent to the gateway
		ExchangeRate float64 `yaml:"exchange_rate"` // base currency -> settlement currency
		TimeoutSec   int     `yaml:"timeout_sec"`
	} `yaml:"paystack"`

	Groq struct {
		APIKey        string `yaml:"api_key"`
		BaseURL       string `yaml:"base_url"`
		FastModel     string `yaml:"fast_model"`
		BalancedModel string `yaml:"balanced_model"`
		TimeoutSec    int    `yaml:"timeout_sec"`
	} `yaml:"groq"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		// Env-var mode (tests, containerized deploys)
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTL = 60
	}

	// Secrets and gateway keys always come from the environment when set,
	// so a checked-in config.yaml never has to carry them.
	if v := os.Getenv("PAYSTACK_SECRET_KEY"); v != "" {
		cfg.Paystack.SecretKey = v
	}
	if v := os.Getenv("PAYSTACK_PUBLIC_KEY"); v != "" {
		cfg.Paystack.PublicKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Groq.APIKey = v
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Paystack.BaseURL == "" {
		cfg.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Paystack.Currency == "" {
		cfg.Paystack.Currency = "ZAR"
	}
	if cfg.Paystack.ExchangeRate == 0 {
		cfg.Paystack.ExchangeRate = 18.0
	}
	if cfg.Paystack.TimeoutSec == 0 {
		cfg.Paystack.TimeoutSec = 15
	}
	if cfg.Groq.BaseURL == "" {
		cfg.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Groq.FastModel == "" {
		cfg.Groq.FastModel = "llama-3.1-8b-instant"
	}
	if cfg.Groq.BalancedModel == "" {
		cfg.Groq.BalancedModel = "llama-3.3-70b-versatile"
	}
	if cfg.Groq.TimeoutSec == 0 {
		cfg.Groq.TimeoutSec = 30
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
