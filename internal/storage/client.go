// Package storage persists proof artifacts through the object storage
// REST interface. One authenticated write per artifact, no retries.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/internal/ident"
	"github.com/BEAUVILLE/abos/models"
	"go.uber.org/zap"
)

type Client struct {
	BaseURL string
	Key     string
	Bucket  string
	Folder  string
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

func NewClient(cfg *config.Config, logger *zap.SugaredLogger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.StorageBaseURL, "/"),
		Key:     cfg.StorageKey,
		Bucket:  cfg.StorageBucket,
		Folder:  cfg.ProofFolder,
		Client:  &http.Client{Timeout: cfg.RequestTimeout},
		Logger:  logger,
	}
}

// UploadError is a storage write the provider rejected. The message is
// whatever the provider sent, surfaced verbatim.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload rejected (%d): %s", e.Status, e.Message)
}

// ObjectPath builds the destination path for one artifact:
// {folder}/{epoch-millis}-{random-hex}.{ext}. Effectively unique; the
// x-upsert:false header on the write is the safety net, not a guarantee.
func (c *Client) ObjectPath(a *models.ProofArtifact) string {
	return fmt.Sprintf("%s/%d-%s.%s",
		c.Folder, time.Now().UnixMilli(), ident.RandHex(13), ident.ExtFromFilename(a.Filename))
}

// Upload performs the authenticated storage write and returns the stored
// object descriptor. Any non-2xx answer is fatal for the attempt and
// comes back as *UploadError; transport failures come back as wrapped
// plain errors.
func (c *Client) Upload(ctx context.Context, path string, a *models.ProofArtifact) (*models.StorageObjectRef, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, url.PathEscape(c.Bucket), path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(a.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+c.Key)
	req.Header.Set("apikey", c.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UploadError{Status: resp.StatusCode, Message: messageFromBody(body)}
	}

	ref := &models.StorageObjectRef{Bucket: c.Bucket, Path: path}
	if len(body) > 0 {
		var meta map[string]any
		if json.Unmarshal(body, &meta) == nil {
			ref.Metadata = meta
		}
	}
	c.Logger.Infow("proof uploaded", "bucket", c.Bucket, "path", path, "size", a.Size)
	return ref, nil
}

// messageFromBody extracts a human-readable reason from a provider error
// body: the JSON message/error field when present, the raw text otherwise.
func messageFromBody(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return string(body)
}
