package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		id       string
		provider string
		model    string
		wantErr  bool
	}{
		{"ollama:ministral-3:14b", "ollama", "ministral-3:14b", false},
		{"openai:gpt-4o-mini", "openai", "gpt-4o-mini", false},
		{"Gemini:gemini-2.5-flash", "gemini", "gemini-2.5-flash", false},
		{"script:testdata/incipit.yaml", "script", "testdata/incipit.yaml", false},
		{"ministral", "", "", true},
		{"ollama:", "", "", true},
		{"claude:opus", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			provider, model, err := ParseModel(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.model, model)
		})
	}
}

func TestOllamaURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", ollamaURL(""))
	assert.Equal(t, "http://gpu-box:11434/v1", ollamaURL("gpu-box:11434"))
	assert.Equal(t, "https://ollama.example.org/v1", ollamaURL("https://ollama.example.org/"))
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()

	o, err := New(ctx, Settings{Model: "script:testdata/incipit.yaml"})
	require.NoError(t, err)
	assert.IsType(t, &Script{}, o)

	o, err = New(ctx, Settings{Model: DefaultModel, OllamaHost: "localhost:11434"})
	require.NoError(t, err)
	assert.IsType(t, &LLM{}, o)

	_, err = New(ctx, Settings{Model: "openai:gpt-4o-mini"})
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	_, err = New(ctx, Settings{Model: "gemini:gemini-2.5-flash"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = New(ctx, Settings{Model: "script:testdata/missing.yaml"})
	assert.Error(t, err)
}

func TestNewProviderModel(t *testing.T) {
	p, err := NewProvider(context.Background(), Settings{Model: "ollama:ministral-3:14b"})
	require.NoError(t, err)
	assert.Equal(t, "ministral-3:14b", p.Model())
}
