package ai

import (
	"net/http"
	"strings"
)

// ErrorKind buckets provider failures for response mapping.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindRateLimit
	KindContextLength
	KindAuth
)

// Classify inspects a provider error's message and assigns a kind. The
// provider does not expose structured codes for every failure mode, so the
// match is substring-based.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindGeneric
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "429"):
		return KindRateLimit
	case strings.Contains(msg, "context_length") ||
		strings.Contains(msg, "context length") ||
		strings.Contains(msg, "maximum context") ||
		strings.Contains(msg, "too large"):
		return KindContextLength
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "401"):
		return KindAuth
	default:
		return KindGeneric
	}
}

// HTTPStatus maps a kind to the response status code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindContextLength:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the human-readable text returned for a kind. Generic
// errors surface the underlying message instead.
func (k ErrorKind) UserMessage() string {
	switch k {
	case KindRateLimit:
		return "I'm getting too many requests right now. Give me a minute? 💕"
	case KindContextLength:
		return "That conversation got too long for me to follow. Start a fresh one?"
	case KindAuth:
		return "My AI service isn't configured properly. Check the API key."
	default:
		return "Something went wrong on my side. Try again?"
	}
}
