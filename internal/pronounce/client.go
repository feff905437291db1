// internal/pronounce/client.go
//
// Client for the external pronunciation grader.
// Responsibilities:
//   - Send one recorded attempt (audio + expected text + language).
//   - Return the grade, or an error the caller surfaces as retryable.
//
// No retries or backoff here; retry is user-initiated (re-record).

package pronounce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

// ErrUnavailable is returned when no grader endpoint is configured.
var ErrUnavailable = errors.New("pronunciation grader unavailable")

// Request is one attempt to grade.
type Request struct {
	Text  string
	Lang  i18n.Lang
	Audio []byte
}

// Result is the grader's verdict. Score is in [0, 1].
type Result struct {
	Score      float64 `json:"score"`
	Transcript string  `json:"transcript,omitempty"`
}

// Client posts attempts to an HTTP grader.
type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a Client for endpoint. An empty endpoint yields a client that
// always fails with ErrUnavailable.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

type gradeBody struct {
	Text  string `json:"text"`
	Lang  string `json:"lang"`
	Audio string `json:"audio"`
}

// Grade sends req and decodes the grader's response.
func (c *Client) Grade(ctx context.Context, req Request) (Result, error) {
	if c == nil || c.endpoint == "" {
		return Result{}, ErrUnavailable
	}
	body, err := json.Marshal(gradeBody{
		Text:  req.Text,
		Lang:  string(req.Lang),
		Audio: base64.StdEncoding.EncodeToString(req.Audio),
	})
	if err != nil {
		return Result{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("grade request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("grade request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("grader returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode grade: %w", err)
	}
	if out.Score < 0 || out.Score > 1 {
		return Result{}, fmt.Errorf("grader score %v out of range", out.Score)
	}
	return out, nil
}
