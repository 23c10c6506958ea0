package util

import (
	"strconv"

	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/errors"
	"github.com/gin-gonic/gin"
)

// ParsePageParams reads the page and limit query parameters. Missing
// parameters fall back to page 1 / limit 20; present-but-invalid values
// (non-numeric, zero, negative) are a caller error and produce an
// INVALID_PAGINATION response before any query runs. The second return
// value is false when a response has already been written.
func ParsePageParams(c *gin.Context) (catalog.Page, bool) {
	page := catalog.DefaultPage()

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondWithAPIError(c, errors.InvalidPagination("page must be a positive integer"))
			return catalog.Page{}, false
		}
		page.Page = n
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondWithAPIError(c, errors.InvalidPagination("limit must be a positive integer"))
			return catalog.Page{}, false
		}
		page.Limit = n
	}

	return page, true
}
