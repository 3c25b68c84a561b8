package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/httpx"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
)

type googleHTTPError struct {
	StatusCode int
	Body       string
}

func (e *googleHTTPError) Error() string {
	return fmt.Sprintf("google api http %d: %s", e.StatusCode, e.Body)
}

func (e *googleHTTPError) HTTPStatusCode() int { return e.StatusCode }

// apiCaller posts JSON bodies to Google's REST endpoints with the API key and
// field mask headers, retrying retryable failures with backoff.
type apiCaller struct {
	log        *logger.Logger
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func (a *apiCaller) postOnce(ctx context.Context, endpoint, fieldMask string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", a.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &googleHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (a *apiCaller) post(ctx context.Context, endpoint, fieldMask string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := a.postOnce(ctx, endpoint, fieldMask, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("google api decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == a.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		a.log.Warn("Google API request retrying",
			"endpoint", endpoint,
			"attempt", attempt+1,
			"max_retries", a.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
