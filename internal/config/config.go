package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VERITAS_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VERITAS_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func RedisURL() string {
	return os.Getenv("REDIS_URL")
}

// RankingsStore returns where AI rankings are kept.
// Valid values: memory, postgres, redis. Defaults to "memory".
func RankingsStore() string {
	s := strings.ToLower(strings.TrimSpace(os.Getenv("RANKINGS_STORE")))
	if s == "" {
		return "memory"
	}
	return s
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "gemini" if not set.
// Valid values: openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "gemini"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set. Zero or a negative value disables limiting.
func RateLimitRPS() float64 {
	v := os.Getenv("RATE_LIMIT_RPS")
	rps, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// MaxTextLength caps submitted text. Defaults to 10000 characters.
func MaxTextLength() int {
	n, err := strconv.Atoi(os.Getenv("MAX_TEXT_LENGTH"))
	if err != nil || n <= 0 {
		return 10000
	}
	return n
}

// CollaboratorTimeout bounds each call to the LLM provider.
// Accepts a Go duration ("45s") or whole seconds. Defaults to 45s.
func CollaboratorTimeout() time.Duration {
	v := os.Getenv("COLLABORATOR_TIMEOUT")
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 45 * time.Second
}

// CORSAllowedOrigins returns the comma-separated CORS_ALLOWED_ORIGINS list.
// Defaults to all origins.
func CORSAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
