package mealrecord

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Abhigulve/mid-day-meal/internal/respond"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts reads on read, create/amend on write and removal on admin.
func (h *Handler) Register(read, write, admin *gin.RouterGroup) {
	read.GET("", h.ListAll)
	read.GET("/today", h.ListToday)
	read.GET("/this-week", h.ListThisWeek)
	read.GET("/date/:date", h.ListForDate)
	read.GET("/period", h.ListInPeriod)
	read.GET("/school/:schoolId/period", h.ListForSchoolInPeriod)
	read.GET("/find", h.Find)
	read.GET("/:id", h.Get)

	write.POST("", h.Record)
	write.PUT("/:id", h.Amend)

	admin.DELETE("/:id", h.Remove)
}

type recordRequest struct {
	SchoolID        *int64  `json:"school_id"`
	MenuID          *int64  `json:"menu_id"`
	Date            *string `json:"date"`
	StudentsPresent *int    `json:"students_present"`
	MealsServed     *int    `json:"meals_served"`
	MealQuality     *string `json:"meal_quality"`
	TeacherInCharge *string `json:"teacher_in_charge"`
	Remarks         *string `json:"remarks"`
	PhotoURL        *string `json:"photo_url"`
}

func (req recordRequest) quality() (*Quality, error) {
	if req.MealQuality == nil || *req.MealQuality == "" {
		return nil, nil
	}
	q, err := ParseQuality(*req.MealQuality)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --------------------------------------------------
// Writes
// --------------------------------------------------
func (h *Handler) Record(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	if req.SchoolID == nil || req.MenuID == nil || req.Date == nil ||
		req.StudentsPresent == nil || req.MealsServed == nil {
		respond.BadRequest(c, "school_id, menu_id, date, students_present and meals_served are required")
		return
	}

	date, ok := respond.Date(c, *req.Date, "date")
	if !ok {
		return
	}
	quality, err := req.quality()
	if err != nil {
		respond.Error(c, err)
		return
	}

	rec, err := h.service.Record(c.Request.Context(), Entry{
		SchoolID:        *req.SchoolID,
		MenuID:          *req.MenuID,
		Date:            date,
		StudentsPresent: *req.StudentsPresent,
		MealsServed:     *req.MealsServed,
		Quality:         quality,
		TeacherInCharge: str(req.TeacherInCharge),
		Remarks:         str(req.Remarks),
		PhotoURL:        str(req.PhotoURL),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Amend(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}
	if req.SchoolID != nil || req.MenuID != nil || req.Date != nil {
		respond.BadRequest(c, "school_id, menu_id and date cannot be changed")
		return
	}

	quality, err := req.quality()
	if err != nil {
		respond.Error(c, err)
		return
	}

	rec, err := h.service.Amend(c.Request.Context(), id, Amendment{
		StudentsPresent: req.StudentsPresent,
		MealsServed:     req.MealsServed,
		Quality:         quality,
		TeacherInCharge: req.TeacherInCharge,
		Remarks:         req.Remarks,
		PhotoURL:        req.PhotoURL,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Remove(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	if err := h.service.RemoveRecord(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GET /meal-records/find?schoolId=&menuId=&date=
func (h *Handler) Find(c *gin.Context) {
	schoolID, err1 := strconv.ParseInt(c.Query("schoolId"), 10, 64)
	menuID, err2 := strconv.ParseInt(c.Query("menuId"), 10, 64)
	if err1 != nil || err2 != nil {
		respond.BadRequest(c, "schoolId and menuId must be numbers")
		return
	}
	date, ok := respond.Date(c, c.Query("date"), "date")
	if !ok {
		return
	}

	rec, err := h.service.Find(c.Request.Context(), schoolID, menuID, date)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, h.service.ListAll)
}

func (h *Handler) ListToday(c *gin.Context) {
	h.list(c, h.service.ListToday)
}

func (h *Handler) ListThisWeek(c *gin.Context) {
	h.list(c, h.service.ListThisWeek)
}

func (h *Handler) ListForDate(c *gin.Context) {
	date, ok := respond.Date(c, c.Param("date"), "date")
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context) ([]MealRecord, error) {
		return h.service.ListForDate(ctx, date)
	})
}

// GET /meal-records/period?startDate=&endDate=
func (h *Handler) ListInPeriod(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context) ([]MealRecord, error) {
		return h.service.ListInPeriod(ctx, r)
	})
}

func (h *Handler) ListForSchoolInPeriod(c *gin.Context) {
	schoolID, ok := respond.ID(c, "schoolId")
	if !ok {
		return
	}
	r, ok := respond.Range(c)
	if !ok {
		return
	}
	h.list(c, func(ctx context.Context) ([]MealRecord, error) {
		return h.service.ListForSchoolInPeriod(ctx, schoolID, r)
	})
}

func (h *Handler) list(c *gin.Context, fetch func(ctx context.Context) ([]MealRecord, error)) {
	records, err := fetch(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
