package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDeck(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		layers  int
		wantErr error
	}{
		{
			name:    "json without type",
			file:    "deck.json",
			content: `{"initialViewState": {"zoom": 3}, "layers": [{"@@type": "PathLayer", "id": "roads"}]}`,
			layers:  1,
		},
		{
			name:    "yaml",
			file:    "deck.yml",
			content: "\"@@type\": Deck\nwidth: 400\n",
		},
		{
			name:    "not a deck",
			file:    "view.json",
			content: `{"@@type": "MapView"}`,
			wantErr: errNotADeck,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := loadDeck(writeDocument(t, tt.file, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, deck.Layers, tt.layers)
		})
	}

	_, err := loadDeck(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
