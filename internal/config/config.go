package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"yield-radar/internal/domain"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	APIKey           string
	HTTPPort         int

	ScanPollSecs    int
	MinAPY          float64
	MinTVLUSD       float64
	MinLiquidityUSD float64
	SortMode        domain.SortMode
	AllowedChains   []string

	OpenAIAPIKey      string
	OpenAIModel       string
	AdvisorMaxHistory int

	SSHPort        int
	SSHHostKeyPath string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.ScanPollSecs = 300
	if v := os.Getenv("SCAN_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScanPollSecs = n
		}
	}

	cfg.MinAPY = 5.0
	if v := strings.TrimSpace(os.Getenv("MIN_APY")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			cfg.MinAPY = n
		}
	}

	cfg.MinTVLUSD = 500_000
	if v := strings.TrimSpace(os.Getenv("MIN_TVL_USD")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			cfg.MinTVLUSD = n
		}
	}

	cfg.MinLiquidityUSD = 100_000
	if v := strings.TrimSpace(os.Getenv("MIN_LIQUIDITY_USD")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			cfg.MinLiquidityUSD = n
		}
	}

	cfg.SortMode = domain.SortByROR
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("SORT_MODE"))); v != "" {
		mode := domain.SortMode(v)
		if mode.IsValid() {
			cfg.SortMode = mode
		} else {
			log.Printf("Warning: unsupported SORT_MODE=%q, defaulting to ror", v)
		}
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_CHAINS")); v != "" {
		for _, chain := range strings.Split(v, ",") {
			chain = strings.ToLower(strings.TrimSpace(chain))
			if chain == "" {
				continue
			}
			if !domain.SupportedChains[chain] {
				log.Printf("Warning: ignoring unsupported chain %q in ALLOWED_CHAINS", chain)
				continue
			}
			cfg.AllowedChains = append(cfg.AllowedChains, chain)
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, advisor will be disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.AdvisorMaxHistory = 20
	if v := os.Getenv("ADVISOR_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdvisorMaxHistory = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/yield_radar_ed25519"
	}

	return cfg
}

// ScanParams assembles the scanner thresholds from the loaded config.
func (c *Config) ScanParams() domain.ScanParams {
	return domain.ScanParams{
		MinAPY:        c.MinAPY,
		MinTVLUSD:     c.MinTVLUSD,
		AllowedChains: c.AllowedChains,
		SortMode:      c.SortMode,
	}
}
