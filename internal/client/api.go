package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultBaseURL is where linkctl looks for the API when nothing is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const defaultTimeout = 10 * time.Second

// Link is the wire shape returned by the API.
type Link struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	IsFavourite bool      `json:"isFavourite"`
	ClickCount  int64     `json:"clickCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LinkInput is the body sent on create and update.
type LinkInput struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Health is the API liveness report.
type Health struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected response"
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return fmt.Sprintf("api: %d %s", e.Status, msg)
}

// StatusOf returns the HTTP status carried by err, or 0 when it is not an *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// LinkAPI is the set of remote calls the Store depends on.
type LinkAPI interface {
	ListLinks(ctx context.Context) ([]Link, error)
	ListFavourites(ctx context.Context) ([]Link, error)
	CreateLink(ctx context.Context, input LinkInput) (*Link, error)
	UpdateLink(ctx context.Context, id string, input LinkInput) (*Link, error)
	DeleteLink(ctx context.Context, id string) error
	AddToFavourites(ctx context.Context, id string) (*Link, error)
	RemoveFromFavourites(ctx context.Context, id string) (*Link, error)
	RecordClick(ctx context.Context, id string) (*Link, error)
}

// API talks to the LinkShelf HTTP API using Fiber's client agent.
type API struct {
	baseURL string
	timeout time.Duration
}

// NewAPI returns a client rooted at baseURL (for example http://localhost:5000/api).
func NewAPI(baseURL string, timeout time.Duration) *API {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &API{baseURL: baseURL, timeout: timeout}
}

// BaseURL reports the API root the client sends requests to.
func (a *API) BaseURL() string {
	return a.baseURL
}

func (a *API) ListLinks(ctx context.Context) ([]Link, error) {
	var links []Link
	if err := a.do(ctx, fiber.MethodGet, "/links", nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (a *API) ListFavourites(ctx context.Context) ([]Link, error) {
	var links []Link
	if err := a.do(ctx, fiber.MethodGet, "/links/favourites", nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (a *API) CreateLink(ctx context.Context, input LinkInput) (*Link, error) {
	var link Link
	if err := a.do(ctx, fiber.MethodPost, "/links", withTags(input), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (a *API) UpdateLink(ctx context.Context, id string, input LinkInput) (*Link, error) {
	var link Link
	if err := a.do(ctx, fiber.MethodPut, linkPath(id), withTags(input), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (a *API) DeleteLink(ctx context.Context, id string) error {
	return a.do(ctx, fiber.MethodDelete, linkPath(id), nil, nil)
}

func (a *API) AddToFavourites(ctx context.Context, id string) (*Link, error) {
	return a.setFavourite(ctx, id, true)
}

func (a *API) RemoveFromFavourites(ctx context.Context, id string) (*Link, error) {
	return a.setFavourite(ctx, id, false)
}

func (a *API) RecordClick(ctx context.Context, id string) (*Link, error) {
	var link Link
	if err := a.do(ctx, fiber.MethodPatch, linkPath(id)+"/click", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Health queries GET /health.
func (a *API) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := a.do(ctx, fiber.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (a *API) setFavourite(ctx context.Context, id string, favourite bool) (*Link, error) {
	body := map[string]bool{"isFavourite": favourite}

	var link Link
	if err := a.do(ctx, fiber.MethodPatch, linkPath(id)+"/favourite", body, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(a.baseURL + path)
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(a.timeoutFor(ctx))

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status, data, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return decodeError(status, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// timeoutFor shortens the client timeout to the context deadline when that is sooner.
func (a *API) timeoutFor(ctx context.Context) time.Duration {
	timeout := a.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			// Zero would disable the timeout entirely.
			timeout = max(remaining, time.Millisecond)
		}
	}
	return timeout
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status}

	var body struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
		Error   string   `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
		if body.Error != "" {
			apiErr.Errors = append(apiErr.Errors, body.Error)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

func linkPath(id string) string {
	return "/links/" + url.PathEscape(id)
}

// withTags sends [] instead of null so the server sees an explicit empty tag list.
func withTags(input LinkInput) LinkInput {
	if input.Tags == nil {
		input.Tags = []string{}
	}
	return input
}
