package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportToS3(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One", "wisdom")
	seedQuote(env.store, "q2", "Quote two text here", "Author Two", "humor")

	w := doJSON(t, env.router, http.MethodPost, "/export", adminToken(t), map[string]any{
		"type":        "quotes",
		"format":      "json",
		"destination": "s3",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Export completed successfully", body["message"])
	assert.Equal(t, "48 hours", body["expires_in"])
	assert.Contains(t, body["download_url"], "https://exports.example.com/exports/admin@example.com/")

	size := body["size"].(map[string]any)
	assert.Greater(t, size["original"], float64(0))
	assert.Greater(t, size["compressed"], float64(0))

	stats := body["statistics"].(map[string]any)
	assert.Equal(t, float64(2), stats["total_quotes"])
	assert.Equal(t, float64(2), stats["unique_authors"])

	require.Len(t, env.objects.keys, 1)
	assert.True(t, strings.HasSuffix(env.objects.keys[0], "quotes.json.gz"))
}

func TestExportDefaultsAndAnonymous(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One")

	// No token and no body still produce an s3 JSON export stamped "unknown".
	w := doJSON(t, env.router, http.MethodPost, "/export", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, env.objects.keys, 1)
	assert.True(t, strings.HasPrefix(env.objects.keys[0], "exports/unknown/"))
}

func TestExportToClipboard(t *testing.T) {
	env := newTestEnv(t)
	seedQuote(env.store, "q1", "Quote one text here", "Author One", "wisdom")

	w := doJSON(t, env.router, http.MethodPost, "/export", userToken(t), map[string]any{
		"format":      "csv",
		"destination": "clipboard",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "clipboard", body["destination"])

	data := body["data"].(string)
	assert.True(t, strings.HasPrefix(data, "id,quote,author,tags,created_at,created_by"))
	assert.Contains(t, data, "Quote one text here")

	// Nothing was uploaded.
	assert.Empty(t, env.objects.keys)
}

func TestExportInvalidDestination(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/export", userToken(t), map[string]any{
		"destination": "carrier-pigeon",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid destination: carrier-pigeon", body["message"])
}

func TestExportInvalidFormat(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/export", userToken(t), map[string]any{
		"format":      "xml",
		"destination": "download",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid format: xml", decodeBody(t, w)["message"])
}
