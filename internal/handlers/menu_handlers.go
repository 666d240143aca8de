package handlers

import (
	"net/http"

	"dineflow/internal/common"
	"dineflow/internal/models"
	"dineflow/internal/services"

	"github.com/labstack/echo/v4"
)

// MenuHandlers handles HTTP requests for menu management
type MenuHandlers struct {
	menuService services.MenuServiceInterface
}

// NewMenuHandlers creates a new menu handlers instance
func NewMenuHandlers(menuService services.MenuServiceInterface) *MenuHandlers {
	return &MenuHandlers{
		menuService: menuService,
	}
}

type foodResponse struct {
	*models.Food
	ImageURL string `json:"image_url,omitempty"`
}

func (h *MenuHandlers) toResponse(c echo.Context, food *models.Food) foodResponse {
	url, err := h.menuService.ImageURL(c.Request().Context(), food)
	if err != nil {
		c.Logger().Errorf("Failed to presign image url for food %s: %v", food.ID, err)
	}
	return foodResponse{Food: food, ImageURL: url}
}

type foodRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   *bool   `json:"available"`
}

// CreateFood handles POST /menu
func (h *MenuHandlers) CreateFood(c echo.Context) error {
	var req foodRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 100000.0); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	food := &models.Food{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Available:   available,
	}

	created, err := h.menuService.Create(c.Request().Context(), food, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(c, created))
}

// GetFood handles GET /menu/:id
func (h *MenuHandlers) GetFood(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "food id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	food, err := h.menuService.Get(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, food))
}

// ListFoods handles GET /menu
func (h *MenuHandlers) ListFoods(c echo.Context) error {
	foods, err := h.menuService.List(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err)
	}

	resp := make([]foodResponse, 0, len(foods))
	for _, food := range foods {
		resp = append(resp, h.toResponse(c, food))
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateFood handles PUT /menu/:id
func (h *MenuHandlers) UpdateFood(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "food id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req foodRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidatePositiveFloat(req.Price, "price", 100000.0); err != nil {
		return common.SendValidationError(c, "price", err.Error())
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	food := &models.Food{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Available:   available,
	}

	updated, err := h.menuService.Update(c.Request().Context(), food, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, updated))
}

// SetFoodAvailability handles PUT /menu/:id/availability
func (h *MenuHandlers) SetFoodAvailability(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "food id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.menuService.SetAvailability(c.Request().Context(), id, req.Available, origin(c)); err != nil {
		return sendServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadFoodImage handles POST /menu/:id/image as a multipart upload
func (h *MenuHandlers) UploadFoodImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "food id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "Image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.menuService.UploadImage(c.Request().Context(), id, fileHeader.Filename,
		contentType, file, fileHeader.Size, origin(c))
	if err != nil {
		return sendServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"image_url": url})
}

// DeleteFood handles DELETE /menu/:id
func (h *MenuHandlers) DeleteFood(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "food id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.menuService.Delete(c.Request().Context(), id, origin(c)); err != nil {
		return sendServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
