package fetch

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

var fetchTestCases = []struct {
	name         string
	id           string
	expectedJSON string
}{
	{
		name:         "Deploy",
		id:           "deploy",
		expectedJSON: `{"id":"deploy","title":"Deploy","text":"Render manifests with gateway render and apply with gateway apply."}`,
	},
	{
		name:         "GettingStarted",
		id:           "getting-started",
		expectedJSON: `{"id":"getting-started","title":"Getting Started","text":"Run docker compose for local gateway and connect ChatGPT via the tunneled /mcp endpoint."}`,
	},
	{
		name:         "Missing",
		id:           "missing",
		expectedJSON: `{"error":"document not found: missing"}`,
	},
	{
		name:         "WrongCase",
		id:           "DEPLOY",
		expectedJSON: `{"error":"document not found: DEPLOY"}`,
	},
	{
		name:         "Empty",
		id:           "",
		expectedJSON: `{"error":"document not found: "}`,
	},
}

func TestFetch(t *testing.T) {
	service := New(newTestLogger(), docstore.New())

	for _, testCase := range fetchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			result := service.Fetch(testCase.id)

			encoded, err := json.Marshal(result)
			assert.NoError(err)
			assert.JSONEq(testCase.expectedJSON, string(encoded))
		})
	}
}

func TestFetchReturnsExactDocument(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger(), docstore.New())

	result := service.Fetch("deploy")

	assert.True(result.Found())
	assert.Empty(result.Error)
	assert.Equal(docstore.Document{
		ID:    "deploy",
		Title: "Deploy",
		Text:  "Render manifests with gateway render and apply with gateway apply.",
	}, *result.Document)
}

func TestFetchMissIsAValue(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger(), docstore.New())

	result := service.Fetch("missing")

	assert.False(result.Found())
	assert.Nil(result.Document)
	assert.Equal("document not found: missing", result.Error)
}

type failingStore struct{}

func (failingStore) Get(id string) (docstore.Document, error) {
	return docstore.Document{}, errors.New("store unavailable")
}

func TestFetchStoreFailure(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger(), failingStore{})

	result := service.Fetch("deploy")

	assert.False(result.Found())
	assert.Equal("store unavailable", result.Error)
}
