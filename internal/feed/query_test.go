package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
)

func TestParseSortField(t *testing.T) {
	cases := map[string]SortField{
		"":           SortCreatedAt,
		"createdAt":  SortCreatedAt,
		"created_at": SortCreatedAt,
		"views":      SortViews,
		" duration ": SortDuration,
	}
	for raw, want := range cases {
		got, err := ParseSortField(raw)
		if err != nil {
			t.Fatalf("ParseSortField(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseSortField(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseSortField("title; DROP TABLE videos"); !errors.Is(err, apperrors.ErrInvalidSortField) {
		t.Fatalf("expected invalid sort field, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if ParseDirection("asc") != Ascending {
		t.Fatal("expected asc to sort ascending")
	}
	for _, raw := range []string{"", "desc", "ASC", "sideways"} {
		if ParseDirection(raw) != Descending {
			t.Fatalf("expected %q to sort descending", raw)
		}
	}
}

func TestNewPage(t *testing.T) {
	page, err := NewPage(3, 20, 100)
	if err != nil {
		t.Fatalf("NewPage returned error: %v", err)
	}
	if page.Offset() != 40 {
		t.Fatalf("expected offset 40, got %d", page.Offset())
	}

	for _, tc := range []struct{ number, size int }{{0, 10}, {1, 0}, {1, 101}, {-2, 10}} {
		if _, err := NewPage(tc.number, tc.size, 100); !errors.Is(err, apperrors.ErrInvalidPage) {
			t.Fatalf("NewPage(%d, %d) expected invalid page, got %v", tc.number, tc.size, err)
		}
	}
}

func TestNewFilter(t *testing.T) {
	if f := NewFilter("   ", "not-an-id"); len(f) != 0 {
		t.Fatalf("expected empty filter, got %#v", f)
	}

	owner := ids.New()
	f := NewFilter(" go ", strings.ToUpper(owner))
	if len(f) != 2 {
		t.Fatalf("expected two predicates, got %#v", f)
	}
	if tm, ok := f[0].(TextMatch); !ok || tm.Query != "go" {
		t.Fatalf("unexpected text predicate: %#v", f[0])
	}
	if om, ok := f[1].(OwnerMatch); !ok || om.OwnerID != owner {
		t.Fatalf("unexpected owner predicate: %#v", f[1])
	}
}

func TestVideoQuerySQL(t *testing.T) {
	owner := ids.New()
	q := VideoQuery{
		Filter: Filter{TextMatch{Query: "50%_off"}, OwnerMatch{OwnerID: owner}},
		Sort:   Sort{Field: SortViews, Direction: Ascending},
		Page:   Page{Number: 2, Size: 5},
	}

	sql, args := q.SQL()
	for _, fragment := range []string{
		"(v.title ILIKE $1 OR v.description ILIKE $1)",
		"v.owner_id = $2",
		"ORDER BY v.views ASC, v.id ASC",
		"LIMIT $3 OFFSET $4",
	} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected %q in query:\n%s", fragment, sql)
		}
	}

	want := []any{`%50\%\_off%`, owner, 5, 5}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %#v", len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %#v, want %#v", i, args[i], want[i])
		}
	}
}

func TestVideoQuerySQLWithoutFilter(t *testing.T) {
	sql, args := VideoQuery{Sort: NewestFirst, Page: Page{Number: 1, Size: 10}}.SQL()
	if strings.Contains(sql, "WHERE") {
		t.Fatalf("expected no WHERE clause:\n%s", sql)
	}
	if !strings.Contains(sql, "ORDER BY v.created_at DESC, v.id DESC") {
		t.Fatalf("expected newest-first ordering:\n%s", sql)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 0 {
		t.Fatalf("unexpected args %#v", args)
	}
}

func TestCommentQuerySQL(t *testing.T) {
	video := ids.New()
	sql, args := CommentQuery{VideoID: video, Page: Page{Number: 3, Size: 4}}.SQL()
	if !strings.Contains(sql, "WHERE c.video_id = $1") || !strings.Contains(sql, "ORDER BY c.created_at DESC, c.id DESC") {
		t.Fatalf("unexpected comment query:\n%s", sql)
	}
	if len(args) != 3 || args[0] != video || args[1] != 4 || args[2] != 8 {
		t.Fatalf("unexpected args %#v", args)
	}
}
