//go:build integration

package openai

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/sse"
)

func TestIntegration_Stream_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client := NewClient(apiKey)
	body, err := client.Stream(context.Background(), "Responda apenas com a palavra: pronto", []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "Você está aí?"},
	})
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	parser := sse.NewParser()
	events := append(parser.Feed(raw), parser.End()...)

	var text strings.Builder
	for _, ev := range events {
		if ev.Type != sse.EventData {
			continue
		}
		delta, err := DecodeDelta(ev.Data)
		require.NoError(t, err)
		text.WriteString(delta)
	}
	assert.NotEmpty(t, text.String())
	assert.True(t, parser.Done())
}

func TestIntegration_Stream_InvalidKey(t *testing.T) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client := NewClient("invalid-key")
	_, err := client.Stream(context.Background(), "persona", []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "oi"},
	})

	assert.Equal(t, domain.ErrCodeUpstream, domain.CodeOf(err))
}
