package tokens

import (
	"token-aggregator/core/logger"
	"token-aggregator/core/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pagination describes the position of a page.
type Pagination struct {
	NextCursor *string `json:"nextCursor"`
	Total      int     `json:"total"`
	Returned   int     `json:"returned"`
}

// ListResponse is the body of GET /api/tokens.
type ListResponse struct {
	Success    bool          `json:"success"`
	Data       []token.Token `json:"data"`
	Pagination Pagination    `json:"pagination"`
	Stale      bool          `json:"stale,omitempty"`
}

// Handler handles HTTP requests for tokens.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the token routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/tokens")
	group.Get("/", h.HandleListTokens)
	group.Get("/:address", h.HandleGetToken)
}

// HandleListTokens returns one page of the aggregated token list.
// @Summary List Tokens
// @Description Returns a page of tokens sorted by the selected key. A full page always carries nextCursor; an empty page marks the end.
// @Tags tokens
// @Produce json
// @Param sortBy query string false "volume, priceChange or marketCap"
// @Param timeFrame query string false "1h, 24h or 7d"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param cursor query string false "tokenAddress of the last item of the previous page"
// @Success 200 {object} ListResponse "Token page"
// @Failure 503 {object} map[string]interface{} "No data available"
// @Router /api/tokens [get]
func (h *Handler) HandleListTokens(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.List(c.UserContext(), ListRequest{
		SortBy:    c.Query("sortBy"),
		TimeFrame: c.Query("timeFrame"),
		Limit:     c.QueryInt("limit", 0),
		Cursor:    c.Query("cursor"),
	})
	if err != nil {
		l.Error("Failed to fetch tokens", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch tokens",
		})
	}

	return c.JSON(ListResponse{
		Success: true,
		Data:    res.Page.Tokens,
		Pagination: Pagination{
			NextCursor: res.Page.NextCursor,
			Total:      res.Page.Total,
			Returned:   len(res.Page.Tokens),
		},
		Stale: res.Stale,
	})
}

// HandleGetToken returns a single token.
// @Summary Get Token
// @Description Returns one token from the current snapshot.
// @Tags tokens
// @Produce json
// @Param address path string true "Token address"
// @Success 200 {object} map[string]interface{} "Token"
// @Failure 404 {object} map[string]interface{} "Unknown token"
// @Failure 503 {object} map[string]interface{} "No data available"
// @Router /api/tokens/{address} [get]
func (h *Handler) HandleGetToken(c *fiber.Ctx) error {
	address := c.Params("address")
	l := logger.WithRayID(h.service.logger, c)

	t, ok, err := h.service.Get(c.UserContext(), address)
	if err != nil {
		l.Error("Failed to fetch tokens", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch tokens",
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Token not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    t,
	})
}
