package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PathID parses a positive int64 path parameter, aborting with 400 when it
// is malformed.
func PathID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Abort(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// QueryID parses an optional int64 query parameter. A missing parameter
// yields nil.
func QueryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		Abort(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &id, true
}
