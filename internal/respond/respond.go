// Package respond turns component errors into HTTP responses.
package respond

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"
	"github.com/Abhigulve/mid-day-meal/internal/period"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Status maps an error to its HTTP status: not found is 404, conflicts and
// bad input are 400, anything else is a defect.
func Status(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case core.IsConflict(err), core.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as JSON. Internal errors are logged and hidden.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{
		"error":     err.Error(),
		"code":      core.Code(err),
		"retryable": core.IsConflict(err),
	})
}

// BadRequest writes a 400 for input the handler could not parse.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "BAD_REQUEST"})
}

// ID parses a numeric path parameter, answering 400 when it is malformed.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// Date parses a YYYY-MM-DD query or path value.
func Date(c *gin.Context, value, name string) (time.Time, bool) {
	d, err := period.Parse(value)
	if err != nil {
		BadRequest(c, "invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// Range reads ?startDate=&endDate= (the names the web client sends).
func Range(c *gin.Context) (period.Range, bool) {
	start, err := period.Parse(c.Query("startDate"))
	if err != nil {
		BadRequest(c, "invalid startDate, expected YYYY-MM-DD")
		return period.Range{}, false
	}
	end, err := period.Parse(c.Query("endDate"))
	if err != nil {
		BadRequest(c, "invalid endDate, expected YYYY-MM-DD")
		return period.Range{}, false
	}
	return period.NewRange(start, end), true
}
