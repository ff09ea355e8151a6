package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ObjectInfo captures the metadata the platform cares about for a stored object.
type ObjectInfo struct {
	Name        string `json:"name"`
	Bucket      string `json:"bucket"`
	ContentType string `json:"contentType"`
	Size        string `json:"size"`
}

// ObjectStore is the surface consumed by the media, receipt and import services.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

// PutObject uploads data under key in the default bucket and returns the
// public URL of the stored object.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if c == nil || c.tokenSource == nil {
		return "", errors.New("gcs client not initialized")
	}
	if key == "" {
		return "", errors.New("object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o?uploadType=media&name=%s",
		c.uploadBase,
		url.PathEscape(c.defaultBucket),
		url.QueryEscape(key),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp, "gcs upload failed")
	}

	return c.PublicURL(key), nil
}

// GetObject downloads the object stored under key in the default bucket.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}
	if key == "" {
		return nil, errors.New("object key is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o/%s?alt=media",
		c.apiBase,
		url.PathEscape(c.defaultBucket),
		url.QueryEscape(key),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp, "gcs download failed")
	}

	return io.ReadAll(resp.Body)
}

// ListObjects returns the objects under prefix in the default bucket.
func (c *Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}

	var out []ObjectInfo
	pageToken := ""
	for {
		u := fmt.Sprintf("%s/b/%s/o?prefix=%s", c.apiBase, url.PathEscape(c.defaultBucket), url.QueryEscape(prefix))
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			err := readAPIError(resp, "gcs list failed")
			_ = resp.Body.Close()
			return nil, err
		}

		var page struct {
			Items         []ObjectInfo `json:"items"`
			NextPageToken string       `json:"nextPageToken"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if decodeErr != nil {
			return nil, decodeErr
		}

		out = append(out, page.Items...)
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteObject removes the object stored under key. Missing objects are not an error.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if key == "" {
		return errors.New("object key is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/b/%s/o/%s", c.apiBase, url.PathEscape(c.defaultBucket), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return readAPIError(resp, "gcs delete failed")
	}

	return nil
}

// PublicURL builds the canonical public URL for an object in the default bucket.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBase, c.defaultBucket, key)
}

func readAPIError(resp *http.Response, msg string) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s: %s: %s", msg, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s: %s", msg, resp.Status)
}
