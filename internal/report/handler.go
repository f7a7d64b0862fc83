package report

import (
	"bytes"
	"fmt"
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

func (h *Handler) Register(reports, dashboard *gin.RouterGroup) {
	reports.GET("/meals-served", h.MealsServed)
	reports.GET("/students-present", h.StudentsPresent)
	reports.GET("/summary", h.Summary)
	reports.GET("/export", h.Export)
	reports.GET("/menus/:menuId/estimate", h.Estimate)

	dashboard.GET("/stats", h.Dashboard)
}

// GET /reports/meals-served?startDate=&endDate=
func (h *Handler) MealsServed(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}
	total, err := h.service.TotalMealsServed(c.Request.Context(), r)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_meals_served": total})
}

func (h *Handler) StudentsPresent(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}
	total, err := h.service.TotalStudentsPresent(c.Request.Context(), r)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_students_present": total})
}

// GET /reports/menus/:menuId/estimate?students=
func (h *Handler) Estimate(c *gin.Context) {
	menuID, ok := respond.ID(c, "menuId")
	if !ok {
		return
	}
	students, err := strconv.Atoi(c.Query("students"))
	if err != nil {
		respond.BadRequest(c, "students must be a number")
		return
	}

	est, err := h.service.Estimate(c.Request.Context(), menuID, students)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// GET /reports/summary?startDate=&endDate=&schoolId=
func (h *Handler) Summary(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}

	var schoolID int64
	if raw := c.Query("schoolId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond.BadRequest(c, "invalid schoolId")
			return
		}
		schoolID = id
	}

	summary, err := h.service.Summary(c.Request.Context(), r, schoolID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Export(c *gin.Context) {
	r, ok := respond.Range(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), r, &buf); err != nil {
		respond.Error(c, err)
		return
	}

	fileName := fmt.Sprintf("meal_records_%s_%s.xlsx",
		r.Start.Format("20060102"), r.End.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
