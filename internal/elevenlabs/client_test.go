package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/domain"
)

func TestSignedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convai/conversation/get_signed_url", r.URL.Path)
		assert.Equal(t, "agent_1", r.URL.Query().Get("agent_id"))
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		assert.Equal(t, "https://cacildafilmes.com.br", r.Header.Get("Origin"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signed_url":"wss://api.elevenlabs.io/v1/convai/conversation?token=abc"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "xi-key", BaseURL: srv.URL})

	got, err := c.SignedURL(context.Background(), "agent_1", "https://cacildafilmes.com.br")
	require.NoError(t, err)
	assert.Equal(t, "wss://api.elevenlabs.io/v1/convai/conversation?token=abc", got)
}

func TestSignedURL_DefaultAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "agent_default", r.URL.Query().Get("agent_id"))
		assert.Empty(t, r.Header.Get("Origin"))
		_, _ = w.Write([]byte(`{"signed_url":"wss://x"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", AgentID: "agent_default", BaseURL: srv.URL + "/"})

	got, err := c.SignedURL(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "wss://x", got)
}

func TestSignedURL_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "bad", AgentID: "a", BaseURL: srv.URL})

	_, err := c.SignedURL(context.Background(), "", "")

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Contains(t, perr.Error(), "Unauthorized")
	assert.Contains(t, perr.Error(), "invalid_api_key")
}

func TestSignedURL_MissingConfig(t *testing.T) {
	_, err := NewClient(Config{}).SignedURL(context.Background(), "agent", "")
	assert.ErrorIs(t, err, domain.ErrMissingVoiceConfig)

	_, err = NewClient(Config{APIKey: "k"}).SignedURL(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrMissingVoiceConfig)
}

func TestSignedURL_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}).SignedURL(context.Background(), "a", "")
	assert.Error(t, err)
}
