package llm

import "time"

// Config holds the Ollama connection settings.
type Config struct {
	Endpoint    string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// DefaultConfig targets a local Ollama with a small general model.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.2",
		Timeout:     2 * time.Minute,
		MaxRetries:  1,
		Temperature: 0.3,
		MaxTokens:   2048,
	}
}
