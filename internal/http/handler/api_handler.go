package handler

import (
	"context"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkShelf/internal/app/model"
	"github.com/sifan077/LinkShelf/internal/app/service"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// HealthChecker reports whether the backing database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Database    HealthChecker
}

// APIHandler implements the link management API endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	database    HealthChecker
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		database:    deps.Database,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		api.Get("/health", h.Health)

		links := api.Group("/links")
		{
			links.Get("/", h.ListLinks)
			links.Get("/favourites", h.ListFavourites)
			links.Post("/", h.CreateLink)
			links.Put("/:id", h.UpdateLink)
			links.Delete("/:id", h.DeleteLink)
			links.Patch("/:id/favourite", h.SetFavourite)
			links.Patch("/:id/click", h.RecordClick)
		}
	}
}

// LinkRequest is the body accepted by create and update.
type LinkRequest struct {
	URL   *string  `json:"url"`
	Title *string  `json:"title"`
	Tags  []string `json:"tags"`
}

// FavouriteRequest carries any JSON value; it is coerced with JavaScript truthiness.
type FavouriteRequest struct {
	IsFavourite interface{} `json:"isFavourite"`
}

// LinkResponse is the wire shape of a link.
type LinkResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	IsFavourite bool      `json:"isFavourite"`
	ClickCount  int64     `json:"clickCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MessageResponse is used for confirmations and errors.
type MessageResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// Health handles GET /api/health
func (h *APIHandler) Health(c *fiber.Ctx) error {
	database := "Disconnected"
	if h.database != nil {
		ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Warn("database ping failed", zap.Error(err))
		} else {
			database = "Connected"
		}
	}

	return c.JSON(HealthResponse{
		Message:   "LinkShelf API is running!",
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Database:  database,
	})
}

// ListLinks handles GET /api/links
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.linkService.ListLinks(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(toResponses(links))
}

// ListFavourites handles GET /api/links/favourites
func (h *APIHandler) ListFavourites(c *fiber.Ctx) error {
	links, err := h.linkService.ListFavourites(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(toResponses(links))
}

// CreateLink handles POST /api/links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req LinkRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c)
	}

	if req.URL == nil || *req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
			Message: service.MsgURLRequired,
		})
	}

	link, err := h.linkService.CreateLink(requestContext(c), service.CreateLinkInput{
		URL:   *req.URL,
		Title: deref(req.Title),
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}

	h.logger.Debug("link created", zap.String("id", link.ID), zap.String("url", link.URL))
	return c.Status(fiber.StatusCreated).JSON(toResponse(link))
}

// UpdateLink handles PUT /api/links/:id
func (h *APIHandler) UpdateLink(c *fiber.Ctx) error {
	var req LinkRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c)
	}

	link, err := h.linkService.UpdateLink(requestContext(c), c.Params("id"), service.UpdateLinkInput{
		URL:   req.URL,
		Title: deref(req.Title),
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(toResponse(link))
}

// DeleteLink handles DELETE /api/links/:id
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	if err := h.linkService.DeleteLink(requestContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(MessageResponse{Message: "Link deleted successfully"})
}

// SetFavourite handles PATCH /api/links/:id/favourite
func (h *APIHandler) SetFavourite(c *fiber.Ctx) error {
	var req FavouriteRequest
	if err := parseBody(c, &req); err != nil {
		return badBody(c)
	}

	link, err := h.linkService.SetFavourite(requestContext(c), c.Params("id"), Truthy(req.IsFavourite))
	if err != nil {
		return err
	}
	return c.JSON(toResponse(link))
}

// RecordClick handles PATCH /api/links/:id/click
func (h *APIHandler) RecordClick(c *fiber.Ctx) error {
	link, err := h.linkService.RecordClick(requestContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toResponse(link))
}

// Truthy coerces a decoded JSON value the way JavaScript's Boolean() does.
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	// An empty body behaves like {}.
	if len(c.Body()) == 0 {
		return nil
	}
	return c.App().Config().JSONDecoder(c.Body(), out)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
		Message: "Invalid request body",
	})
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(link *model.Link) LinkResponse {
	tags := link.Tags
	if tags == nil {
		tags = []string{}
	}
	return LinkResponse{
		ID:          link.ID,
		URL:         link.URL,
		Title:       link.Title,
		Tags:        tags,
		IsFavourite: link.IsFavourite,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

func toResponses(links []model.Link) []LinkResponse {
	response := make([]LinkResponse, len(links))
	for i := range links {
		response[i] = toResponse(&links[i])
	}
	return response
}
