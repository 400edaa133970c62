package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Params holds a validated limit/offset pair parsed from the query string.
type Params struct {
	Limit  int
	Offset int
}

// Parse reads limit and offset query parameters, falling back to the given
// default limit. Non-numeric and negative values fall back too.
func Parse(c *gin.Context, defaultLimit int) Params {
	p := Params{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	return p
}
