package views

import (
	"net/url"
	"strconv"

	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/pagination"
)

// Listing is the public property listing
type Listing struct {
	Properties []domain.Property
	Meta       pagination.Meta
	Params     pagination.Params
	Filters    url.Values
	Types      []Option
	Statuses   []Option
	Sorts      []Option
	DebounceMS int
	DetailBase string
}

// Filter returns the current value of a filter
func (l Listing) Filter(name string) string {
	return l.Filters.Get(name)
}

// PageURL is the listing URL for page n with the current filters
func (l Listing) PageURL(n int) string {
	q := l.Params.Values()
	for k, v := range l.Filters {
		if len(v) > 0 && v[0] != "" {
			q.Set(k, v[0])
		}
	}
	q.Set("page", strconv.Itoa(n))
	return "?" + q.Encode()
}

// PrevURL links to the previous page, empty on the first one
func (l Listing) PrevURL() string {
	if !l.Meta.HasPrev() {
		return ""
	}
	return l.PageURL(l.Meta.CurrentPage - 1)
}

// NextURL links to the next page, empty on the last one
func (l Listing) NextURL() string {
	if !l.Meta.HasNext() {
		return ""
	}
	return l.PageURL(l.Meta.CurrentPage + 1)
}

// PropertyDetail is the client view of a property with its request forms
type PropertyDetail struct {
	Property domain.Property
	Contract Form
	Visit    Form
}

// ErrorPage is the content of the fallback error page
type ErrorPage struct {
	Status  int
	Message string
}

// Dashboard is the content of a role dashboard
type Dashboard struct {
	Heading     string
	Stats       []Stat
	Tables      []Table
	Suggestions []domain.Property
	DetailBase  string
}

// Stat is one counter tile
type Stat struct {
	Label string
	Value int
	URL   string
}
