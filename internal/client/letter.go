// ABOUTME: Binary download path for the letter-generation endpoint
// ABOUTME: Streams the generated document to disk instead of decoding JSON

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// LetterFilename is the fixed default name for the downloaded document
const LetterFilename = "lettre_de_mission.docx"

// GenerateLetter calls POST /generate-ldm with the flat replacements map
// and writes the binary response to outPath. The response body is treated
// as an opaque byte stream; only error responses are parsed as JSON.
func (c *Client) GenerateLetter(ctx context.Context, replacements map[string]string, outPath string) error {
	if outPath == "" {
		outPath = LetterFilename
	}

	payload := map[string]map[string]string{"replacements": replacements}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal replacements: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-ldm", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
