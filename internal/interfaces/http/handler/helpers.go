package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// queryUUID reads an optional UUID query parameter. ok is false after a 400
// has been written for a malformed value.
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (id *uuid.UUID, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &parsed, true
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}
