package domain

import "strings"

// DefaultPageSize is used when a caller does not ask for a positive page size.
const DefaultPageSize = 20

// FilterKey names the attribute a listing is narrowed by.
type FilterKey string

const (
	FilterName    FilterKey = "name"
	FilterCuisine FilterKey = "cuisine"
	FilterZipcode FilterKey = "zipcode"
)

// Filter carries the caller's listing criteria. Only one of them is ever
// applied, in the order name, cuisine, zipcode.
type Filter struct {
	Name    string
	Cuisine string
	Zipcode string
}

// Criterion is the single filter that survives precedence resolution.
type Criterion struct {
	Key   FilterKey
	Value string
}

// Criterion returns the highest-precedence criterion present in f.
// Blank values count as absent. Lower-precedence values are ignored.
func (f Filter) Criterion() (Criterion, bool) {
	if v := strings.TrimSpace(f.Name); v != "" {
		return Criterion{Key: FilterName, Value: v}, true
	}
	if v := strings.TrimSpace(f.Cuisine); v != "" {
		return Criterion{Key: FilterCuisine, Value: v}, true
	}
	if v := strings.TrimSpace(f.Zipcode); v != "" {
		return Criterion{Key: FilterZipcode, Value: v}, true
	}
	return Criterion{}, false
}

// Paging selects one zero-based page of a listing.
type Paging struct {
	Page     int
	PageSize int
}

// Normalize clamps a negative page to 0 and replaces a non-positive size
// with DefaultPageSize.
func (p Paging) Normalize() Paging {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Skip is the number of matching records before the page starts.
func (p Paging) Skip() int64 {
	p = p.Normalize()
	return int64(p.PageSize) * int64(p.Page)
}

// Limit is the maximum number of records on the page.
func (p Paging) Limit() int64 {
	return int64(p.Normalize().PageSize)
}

// RestaurantPage is the fail-soft result of a listing. When Err is set the
// page is always empty with a zero total.
type RestaurantPage struct {
	Items    []Restaurant `json:"restaurants"`
	Total    int64        `json:"totalResults"`
	Page     int          `json:"page"`
	PageSize int          `json:"entriesPerPage"`
	Err      error        `json:"-"`
}

// EmptyPage returns a page with no items for the given window.
func EmptyPage(paging Paging) RestaurantPage {
	paging = paging.Normalize()
	return RestaurantPage{
		Items:    []Restaurant{},
		Page:     paging.Page,
		PageSize: paging.PageSize,
	}
}

// Degraded reports whether the page is a fallback produced by a failure.
func (p RestaurantPage) Degraded() bool {
	return p.Err != nil
}

// CuisineList is the fail-soft result of listing distinct cuisines.
type CuisineList struct {
	Values []string `json:"cuisines"`
	Err    error    `json:"-"`
}

// Degraded reports whether the list is a fallback produced by a failure.
func (l CuisineList) Degraded() bool {
	return l.Err != nil
}
