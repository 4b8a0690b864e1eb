// Package feed composes the filtered, sorted, paginated and enriched listings
// served over the video catalog, comments and subscriptions.
package feed

import (
	"fmt"
	"strings"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
)

// SortField is one of the sortable video columns.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortViews     SortField = "views"
	SortDuration  SortField = "duration"
)

var sortColumns = map[SortField]string{
	SortCreatedAt: "v.created_at",
	SortViews:     "v.views",
	SortDuration:  "v.duration",
}

// ParseSortField maps a caller supplied field name onto the allow-list. An
// empty value selects creation time.
func ParseSortField(raw string) (SortField, error) {
	switch strings.TrimSpace(raw) {
	case "", "createdAt", "created_at":
		return SortCreatedAt, nil
	case "views":
		return SortViews, nil
	case "duration":
		return SortDuration, nil
	default:
		return "", apperrors.InvalidSortField(raw)
	}
}

// Direction orders results ascending or descending.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// ParseDirection returns Ascending only for "asc"; every other value,
// including the empty string, sorts descending.
func ParseDirection(raw string) Direction {
	if raw == "asc" {
		return Ascending
	}
	return Descending
}

func (d Direction) String() string {
	if d == Ascending {
		return "ASC"
	}
	return "DESC"
}

// Sort is a validated ordering.
type Sort struct {
	Field     SortField
	Direction Direction
}

// NewestFirst orders by creation time, newest first.
var NewestFirst = Sort{Field: SortCreatedAt, Direction: Descending}

// Page is a validated 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage validates number and size against maxSize.
func NewPage(number, size, maxSize int) (Page, error) {
	if number < 1 {
		return Page{}, apperrors.InvalidPage("page must be at least 1")
	}
	if size < 1 {
		return Page{}, apperrors.InvalidPage("limit must be at least 1")
	}
	if maxSize > 0 && size > maxSize {
		return Page{}, apperrors.InvalidPage(fmt.Sprintf("limit must not exceed %d", maxSize))
	}
	return Page{Number: number, Size: size}, nil
}

// Offset is the number of matching rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Predicate is a single filter clause. The set of implementations is closed.
type Predicate interface {
	predicate()
}

// TextMatch matches videos whose title or description contains Query,
// ignoring case.
type TextMatch struct {
	Query string
}

// OwnerMatch matches videos owned by OwnerID.
type OwnerMatch struct {
	OwnerID string
}

func (TextMatch) predicate()  {}
func (OwnerMatch) predicate() {}

// Filter is a conjunction of predicates. An empty filter matches everything.
type Filter []Predicate

// NewFilter builds the feed filter. A blank text query adds no clause, and a
// malformed owner identifier is ignored rather than rejected.
func NewFilter(textQuery, ownerID string) Filter {
	var f Filter
	if q := strings.TrimSpace(textQuery); q != "" {
		f = append(f, TextMatch{Query: q})
	}
	if id, err := ids.Parse("owner", ownerID); err == nil {
		f = append(f, OwnerMatch{OwnerID: id})
	}
	return f
}

// VideoQuery is a complete video listing plan.
type VideoQuery struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

// CommentQuery lists the comments of a single video, newest first.
type CommentQuery struct {
	VideoID string
	Page    Page
}
