package ai

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"rate limit words", errors.New("Rate limit reached for model"), KindRateLimit},
		{"rate limit code", errors.New("error, status code: 429"), KindRateLimit},
		{"context length", errors.New("Please reduce the length: context_length_exceeded"), KindContextLength},
		{"request too large", errors.New("Request too large for model"), KindContextLength},
		{"bad key", errors.New("Invalid API Key provided"), KindAuth},
		{"unauthorized", errors.New("401 Unauthorized"), KindAuth},
		{"generic", errors.New("connection reset by peer"), KindGeneric},
		{"nil", nil, KindGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorKindMapping(t *testing.T) {
	require.Equal(t, http.StatusTooManyRequests, KindRateLimit.HTTPStatus())
	require.Equal(t, http.StatusBadRequest, KindContextLength.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, KindAuth.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, KindGeneric.HTTPStatus())

	require.Contains(t, KindRateLimit.UserMessage(), "too many requests")
	require.Contains(t, KindAuth.UserMessage(), "API key")
}
