package asset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImagesUploadsAndRewrites(t *testing.T) {
	baseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "fig1.png"), []byte("png-bytes"), 0o644))

	var gotBusinessType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotBusinessType = r.FormValue("business_type")
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"fileId": "f-123"},
		})
	}))
	defer server.Close()

	u := NewUploader(server.URL, "app-1", server.Client(), zerolog.Nop())
	content := "1.See the figure ![diagram](fig1.png) and ![remote](https://cdn.example.com/x.png)"

	rewritten, urls, err := u.ProcessImages(context.Background(), content, baseDir, "question_image")
	require.NoError(t, err)

	wantURL := server.URL + "/asset/v1/files/f-123/url"
	assert.Equal(t, []string{wantURL}, urls)
	assert.Contains(t, rewritten, "!["+"diagram"+"]("+wantURL+")")
	assert.Contains(t, rewritten, "(https://cdn.example.com/x.png)", "remote references stay untouched")
	assert.Equal(t, "question_image", gotBusinessType)
}

func TestProcessImagesKeepsReferenceOnFailure(t *testing.T) {
	baseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "fig1.png"), []byte("png-bytes"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	u := NewUploader(server.URL, "", server.Client(), zerolog.Nop())
	content := "![diagram](fig1.png)"

	rewritten, urls, err := u.ProcessImages(context.Background(), content, baseDir, "question_image")
	require.NoError(t, err, "upload failure must degrade softly")
	assert.Empty(t, urls)
	assert.Equal(t, content, rewritten)
}

func TestProcessImagesSkipsMissingFiles(t *testing.T) {
	u := NewUploader("http://unreachable.invalid", "", nil, zerolog.Nop())
	content := "![gone](nowhere.png)"

	rewritten, urls, err := u.ProcessImages(context.Background(), content, t.TempDir(), "question_image")
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Equal(t, content, rewritten)
}
