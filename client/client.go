package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/jsonapi"
	"github.com/a-h/lyricslides/models"
)

func New(endpoint string) Client {
	return Client{
		endpoint: endpoint,
	}
}

// Client calls the slide generation endpoint.
type Client struct {
	endpoint string
}

// ConfigurationError is returned before any network call is made.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the request fails or the endpoint returns a
// non-2xx status. Status is zero if no response was received.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: unexpected status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a successful response is not a valid generation response.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Generate posts the page URL to the endpoint and returns the generated slides.
func (c Client) Generate(ctx context.Context, pageURL string) (resp models.GenerateResponse, err error) {
	if c.endpoint == "" {
		return resp, &ConfigurationError{Reason: "generation endpoint URL is missing"}
	}
	if pageURL == "" {
		return resp, &ConfigurationError{Reason: "page URL is empty"}
	}
	url, err := jsonapi.URL(c.endpoint).String()
	if err != nil {
		return resp, &ConfigurationError{Reason: "invalid generation endpoint URL", Err: err}
	}

	buf, err := json.Marshal(models.GenerateRequest{URL: pageURL})
	if err != nil {
		return resp, fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return resp, &ConfigurationError{Reason: "invalid generation endpoint URL", Err: err}
	}
	res, err := jsonapi.Raw(httpReq, jsonapi.WithRequestHeader("Content-Type", "application/json"))
	if err != nil {
		var ise jsonapi.InvalidStatusError
		if errors.As(err, &ise) {
			return resp, &TransportError{Status: ise.Status, Body: ise.Body, Err: err}
		}
		return resp, &TransportError{Err: fmt.Errorf("failed to perform HTTP request: %w", err)}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		ise := jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
		return resp, &TransportError{Status: ise.Status, Body: ise.Body, Err: ise}
	}
	var body generateResponseBody
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		return resp, &DecodeError{Err: fmt.Errorf("failed to decode response body: %w", err)}
	}
	if body.Slides == nil {
		return resp, &DecodeError{Err: ErrMissingSlides}
	}
	resp.Title = body.Title
	resp.SlideCount = body.SlideCount
	resp.Slides = *body.Slides
	return resp, nil
}

// ErrMissingSlides is wrapped in a DecodeError when the slides field is absent or null.
var ErrMissingSlides = errors.New("response has no slides list")

// generateResponseBody distinguishes a missing or null slides list from an empty one.
type generateResponseBody struct {
	Title      string    `json:"title"`
	SlideCount int       `json:"slide_count"`
	Slides     *[]string `json:"slides"`
}
