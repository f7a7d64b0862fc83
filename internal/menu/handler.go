package menu

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/respond"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	public.GET("/month", h.ListForMonth)
	public.GET("/period", h.ListForPeriod)
	public.GET("/current-week", h.CurrentWeek)
	public.GET("/current-month", h.CurrentMonth)
	public.GET("/date/:date/meal-type/:mealType", h.GetByDateAndMealType)
	public.GET("/:id", h.Get)
	public.GET("/:id/food-items", h.Composition)

	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Deactivate)
	admin.POST("/:id/food-items", h.AddFoodItem)
	admin.PUT("/:id/food-items/:foodItemId", h.UpdateFoodItem)
	admin.DELETE("/:id/food-items/:foodItemId", h.RemoveFoodItem)
}

type menuRequest struct {
	Date             *string `json:"date"`
	MealType         *string `json:"meal_type"`
	Description      *string `json:"description"`
	DescriptionLocal *string `json:"description_local"`
}

type foodItemRequest struct {
	FoodItemID         int64            `json:"food_item_id"`
	QuantityPerStudent *decimal.Decimal `json:"quantity_per_student"`
	Notes              *string          `json:"notes"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --------------------------------------------------
// Admin: menus
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	if req.Date == nil || req.MealType == nil {
		respond.BadRequest(c, "date and meal_type are required")
		return
	}

	date, ok := respond.Date(c, *req.Date, "date")
	if !ok {
		return
	}
	mealType, err := ParseMealType(*req.MealType)
	if err != nil {
		respond.Error(c, err)
		return
	}

	m, err := h.service.CreateMenu(
		c.Request.Context(),
		date,
		mealType,
		deref(req.Description),
		deref(req.DescriptionLocal),
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	ch := Changes{Description: req.Description, DescriptionLocal: req.DescriptionLocal}
	if req.Date != nil {
		date, ok := respond.Date(c, *req.Date, "date")
		if !ok {
			return
		}
		ch.Date = &date
	}
	if req.MealType != nil {
		t := MealType(*req.MealType)
		ch.MealType = &t
	}

	m, err := h.service.UpdateMenu(c.Request.Context(), id, ch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeactivateMenu(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Admin: composition
// --------------------------------------------------
func (h *Handler) AddFoodItem(c *gin.Context) {
	menuID, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	var req foodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodItemID <= 0 || req.QuantityPerStudent == nil {
		respond.BadRequest(c, "food_item_id and quantity_per_student are required")
		return
	}

	line, err := h.service.AddFoodItem(
		c.Request.Context(),
		menuID,
		req.FoodItemID,
		*req.QuantityPerStudent,
		deref(req.Notes),
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *Handler) UpdateFoodItem(c *gin.Context) {
	menuID, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	foodItemID, ok := respond.ID(c, "foodItemId")
	if !ok {
		return
	}

	var req foodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuantityPerStudent == nil {
		respond.BadRequest(c, "quantity_per_student is required")
		return
	}

	line, err := h.service.UpdateFoodItemQuantity(
		c.Request.Context(),
		menuID,
		foodItemID,
		*req.QuantityPerStudent,
		req.Notes,
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) RemoveFoodItem(c *gin.Context) {
	menuID, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	foodItemID, ok := respond.ID(c, "foodItemId")
	if !ok {
		return
	}

	if err := h.service.RemoveFoodItem(c.Request.Context(), menuID, foodItemID); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	menus, err := h.service.ListAll(c.Request.Context(), core.ParseVisibility(c.Query("include_inactive")))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// GET /menus/month?month=3&year=2024
func (h *Handler) ListForMonth(c *gin.Context) {
	month, err1 := strconv.Atoi(c.Query("month"))
	year, err2 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil {
		respond.BadRequest(c, "month and year must be numbers")
		return
	}

	menus, err := h.service.ListForMonth(
		c.Request.Context(),
		month,
		year,
		core.ParseVisibility(c.Query("include_inactive")),
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// GET /menus/period?startDate=&endDate=&mealType=
func (h *Handler) ListForPeriod(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}

	var mealType MealType
	if raw := c.Query("mealType"); raw != "" {
		t, err := ParseMealType(raw)
		if err != nil {
			respond.Error(c, err)
			return
		}
		mealType = t
	}

	menus, err := h.service.ListForPeriod(
		c.Request.Context(),
		r,
		mealType,
		core.ParseVisibility(c.Query("include_inactive")),
	)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *Handler) CurrentWeek(c *gin.Context) {
	h.listWith(c, h.service.CurrentWeek)
}

func (h *Handler) CurrentMonth(c *gin.Context) {
	h.listWith(c, h.service.CurrentMonth)
}

func (h *Handler) listWith(c *gin.Context, list func(ctx context.Context) ([]Menu, error)) {
	menus, err := list(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *Handler) GetByDateAndMealType(c *gin.Context) {
	date, ok := respond.Date(c, c.Param("date"), "date")
	if !ok {
		return
	}
	mealType, err := ParseMealType(c.Param("mealType"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	m, err := h.service.GetByDateAndMealType(c.Request.Context(), date, mealType)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) Composition(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	lines, err := h.service.Composition(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}
