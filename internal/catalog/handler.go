package catalog

import (
	"net/http"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/respond"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the read routes on public and the write routes on admin.
func (h *Handler) Register(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	public.GET("/search", h.Search)
	public.GET("/:id", h.Get)

	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Deactivate)
}

// GET /food-items?category=&include_inactive=
func (h *Handler) List(c *gin.Context) {
	vis := core.ParseVisibility(c.Query("include_inactive"))

	var (
		items []FoodItem
		err   error
	)
	if category := c.Query("category"); category != "" {
		items, err = h.service.ListByCategory(c.Request.Context(), category, vis)
	} else {
		items, err = h.service.List(c.Request.Context(), vis)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GET /food-items/search?query=
func (h *Handler) Search(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
