package llm

import "errors"

var (
	// ErrOllamaUnavailable means the Ollama server could not be reached.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput means the model's reply did not contain a usable
	// workout document.
	ErrInvalidOutput = errors.New("invalid llm output")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
