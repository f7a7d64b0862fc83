package school

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

func (h *Handler) Register(public, admin *gin.RouterGroup) {
	public.GET("", h.List)
	public.GET("/search", h.Search)
	public.GET("/count", h.CountActive)
	public.GET("/code/:code", h.GetByCode)
	public.GET("/city/:city", h.ListByCity)
	public.GET("/state/:state", h.ListByState)
	public.GET("/:id", h.Get)

	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Deactivate)
}

func (h *Handler) List(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context(), core.ParseVisibility(c.Query("include_inactive")))
	h.writeList(c, schools, err)
}

func (h *Handler) Search(c *gin.Context) {
	schools, err := h.service.Search(c.Request.Context(), c.Query("query"))
	h.writeList(c, schools, err)
}

func (h *Handler) ListByCity(c *gin.Context) {
	schools, err := h.service.ListByCity(c.Request.Context(), c.Param("city"))
	h.writeList(c, schools, err)
}

func (h *Handler) ListByState(c *gin.Context) {
	schools, err := h.service.ListByState(c.Request.Context(), c.Param("state"))
	h.writeList(c, schools, err)
}

func (h *Handler) writeList(c *gin.Context, schools []School, err error) {
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

func (h *Handler) CountActive(c *gin.Context) {
	n, err := h.service.CountActive(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_schools": n})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	sc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) GetByCode(c *gin.Context) {
	sc, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	sc, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
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
	sc, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
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
