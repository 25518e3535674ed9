package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Params represents listing parameters forwarded to the API
type Params struct {
	Page      int    `json:"page"`
	PerPage   int    `json:"per_page"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Search    string `json:"search,omitempty"`
}

// Meta mirrors the paginator metadata returned by the API
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// DefaultPerPage is the default number of items per page
const DefaultPerPage = 12

// MaxPerPage is the maximum number of items per page
const MaxPerPage = 100

// MaxPage is the highest page number accepted from a query string
const MaxPage = math.MaxInt32

// DefaultSort is used when sort_by is missing or not allowed
const DefaultSort = "created_at"

// SortFields lists the columns the listing can be sorted by
var SortFields = []string{"created_at", "price", "surface", "rooms", "title"}

// GetParams extracts listing parameters from request
func GetParams(c *fiber.Ctx, defaultPerPage int) *Params {
	if defaultPerPage < 1 {
		defaultPerPage = DefaultPerPage
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPerPage)))

	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	sortBy := strings.ToLower(c.Query("sort_by", DefaultSort))
	if !allowedSort(sortBy) {
		sortBy = DefaultSort
	}

	sortOrder := strings.ToLower(c.Query("sort_order", "desc"))
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	return &Params{
		Page:      page,
		PerPage:   perPage,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Search:    strings.TrimSpace(c.Query("search")),
	}
}

func allowedSort(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// Values encodes the params as API query parameters
func (p *Params) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("per_page", strconv.Itoa(p.PerPage))
	v.Set("sort_by", p.SortBy)
	v.Set("sort_order", p.SortOrder)
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return v
}

// HasNext reports whether a later page exists
func (m Meta) HasNext() bool {
	return m.CurrentPage < m.LastPage
}

// HasPrev reports whether an earlier page exists
func (m Meta) HasPrev() bool {
	return m.CurrentPage > 1
}

// GetMeta fills metadata for a fully known result set, used when the API returns a bare array
func GetMeta(params *Params, total int64) Meta {
	lastPage := int(total) / params.PerPage
	if int(total)%params.PerPage > 0 {
		lastPage++
	}
	if lastPage == 0 {
		lastPage = 1
	}

	return Meta{
		CurrentPage: params.Page,
		LastPage:    lastPage,
		PerPage:     params.PerPage,
		Total:       total,
	}
}

// Response represents paginated response
type Response[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
