package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models/dto"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
	// MaxPage keeps (page-1)*MaxPageSize inside a Postgres bigint OFFSET
	MaxPage = math.MaxInt32
)

// CalculateOffsetLimit returns the SQL offset for a 1-based page.
// Callers at the HTTP boundary clamp the size beforehand; here
// non-positive values are corrected and page is capped at MaxPage.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	return uint64(page-1) * uint64(size), uint64(size)
}

// TotalPages is the ceiling of totalItems/size.
func TotalPages(totalItems int64, size int) int {
	if size <= 0 || totalItems <= 0 {
		return 0
	}
	return int((totalItems + int64(size) - 1) / int64(size))
}

// NewPaginationInfo creates a PaginationInfo DTO for a 1-based page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads the pa (page) and tp (page size) query
// parameters, falling back to defaults and clamping them to MaxPage and MaxPageSize.
func ParsePaginationParams(c *gin.Context, defaultSize int) (page, size int) {
	if defaultSize <= 0 || defaultSize > MaxPageSize {
		defaultSize = DefaultPageSize
	}

	page, err := strconv.Atoi(c.DefaultQuery("pa", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("tp", strconv.Itoa(defaultSize)))
	if err != nil || size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return page, size
}
