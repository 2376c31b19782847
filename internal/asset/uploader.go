// Package asset uploads images referenced by converted documents to the
// asset service and rewrites their markdown references.
package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const uploadSource = "question_hub_document_service"

var imageRefRE = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Uploader posts local image files to the asset service.
type Uploader struct {
	baseURL    string
	appID      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewUploader(baseURL, appID string, httpClient *http.Client, logger zerolog.Logger) *Uploader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Uploader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appID:      appID,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "asset_uploader").Logger(),
	}
}

// ProcessImages finds local image references in markdown content, uploads
// each to the asset service and rewrites the reference to the returned URL.
// Remote references are left untouched. A failed upload keeps the original
// reference: image loss degrades the document, it must not fail the task.
func (u *Uploader) ProcessImages(ctx context.Context, content, baseDir, businessType string) (string, []string, error) {
	var uploaded []string
	replacements := map[string]string{}

	for _, m := range imageRefRE.FindAllStringSubmatch(content, -1) {
		ref := m[2]
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			continue
		}
		if _, done := replacements[ref]; done {
			continue
		}

		localPath := ref
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(baseDir, localPath)
		}
		fileURL, err := u.upload(ctx, localPath, businessType)
		if err != nil {
			u.logger.Warn().Err(err).Str("image", ref).Msg("image upload failed, keeping original reference")
			continue
		}
		replacements[ref] = fileURL
		uploaded = append(uploaded, fileURL)
	}

	for old, fileURL := range replacements {
		content = strings.ReplaceAll(content, "("+old+")", "("+fileURL+")")
	}
	return content, uploaded, nil
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		FileID string `json:"fileId"`
	} `json:"data"`
	ErrorMessage string `json:"errorMessage"`
}

// upload posts one file as multipart form data and returns the asset URL.
func (u *Uploader) upload(ctx context.Context, localPath, businessType string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	_ = form.WriteField("business_type", businessType)
	_ = form.WriteField("source", uploadSource)
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/asset/v1/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if u.appID != "" {
		req.Header.Set("X-App-ID", u.appID)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("asset service returned status %d", resp.StatusCode)
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode asset response: %w", err)
	}
	if !payload.Success || payload.Data.FileID == "" {
		return "", fmt.Errorf("asset upload rejected: %s", payload.ErrorMessage)
	}
	return fmt.Sprintf("%s/asset/v1/files/%s/url", u.baseURL, payload.Data.FileID), nil
}
