package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const maxErrorBody = 256

// Listing is the body of GET /models. Only the id of each record is decoded;
// any other field may hold any JSON value.
type Listing struct {
	Models []Model `json:"data"`
}

type Model struct {
	ID string `json:"id"`
}

type Stage string

const (
	StageTransport Stage = "transport"
	StageStatus    Stage = "status"
	StageDecode    Stage = "decode"
)

// RequestFailedError is returned by ListModels for any failure after the
// request is built. StatusCode is zero unless the server answered.
type RequestFailedError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *RequestFailedError) Error() string {
	switch e.Stage {
	case StageStatus:
		return fmt.Sprintf("list models: server returned status %d: %s", e.StatusCode, e.message())
	case StageDecode:
		return fmt.Sprintf("list models: unable to parse response: %s", e.Err)
	default:
		return fmt.Sprintf("list models: request failed: %s", e.Err)
	}
}

func (e *RequestFailedError) message() string {
	var (
		apiErr *openai.APIError
		reqErr *openai.RequestError
	)

	switch {
	case errors.As(e.Err, &apiErr):
		return apiErr.Message
	case errors.As(e.Err, &reqErr) && reqErr.Err != nil:
		return reqErr.Err.Error()
	default:
		return http.StatusText(e.StatusCode)
	}
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient returns a client for the OpenAI models endpoint authenticating
// with credential. An empty baseURL keeps the OpenAI default.
func NewClient(credential, baseURL string, log zerolog.Logger) *Client {
	conf := openai.DefaultConfig(credential)

	if baseURL != "" {
		conf.BaseURL = strings.TrimRight(baseURL, "/")
	}

	cli := resty.NewWithClient(conf.HTTPClient).
		SetBaseURL(conf.BaseURL).
		SetAuthToken(credential).
		SetLogger(restyLogger{log})

	return &Client{baseURL: conf.BaseURL, http: cli}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListModels(ctx context.Context) (Listing, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/models")
	if err != nil {
		return Listing{}, &RequestFailedError{Stage: StageTransport, Err: err}
	}

	if err := mapHTTPError(resp); err != nil {
		return Listing{}, err
	}

	var listing Listing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return Listing{}, &RequestFailedError{Stage: StageDecode, StatusCode: resp.StatusCode(), Err: err}
	}

	return listing, nil
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	var errRes openai.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errRes); err == nil && errRes.Error != nil {
		errRes.Error.HTTPStatusCode = code
		return &RequestFailedError{Stage: StageStatus, StatusCode: code, Err: errRes.Error}
	}

	body := strings.TrimSpace(string(resp.Body()))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		body = http.StatusText(code)
	}

	return &RequestFailedError{
		Stage:      StageStatus,
		StatusCode: code,
		Err:        &openai.RequestError{HTTPStatusCode: code, Err: errors.New(body)},
	}
}

type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug().Msgf(strings.TrimSpace(format), v...)
}

// IDs returns the non-empty model IDs in listing, sorted.
func IDs(listing Listing) []string {
	ids := make([]string, 0, len(listing.Models))

	for _, model := range listing.Models {
		if model.ID != "" {
			ids = append(ids, model.ID)
		}
	}

	sort.Strings(ids)

	return ids
}

// Write prints ids one per line. An empty ids still writes a single newline.
func Write(w io.Writer, ids []string) error {
	_, err := io.WriteString(w, strings.Join(ids, "\n")+"\n")
	return err
}
