package feed

import (
	"fmt"
	"strings"
)

// EnrichedVideoColumns selects a video joined to its owner summary. Owner
// columns are NULL when the owner row is missing.
const EnrichedVideoColumns = `v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
       u.id, u.full_name, u.username, u.avatar`

// EnrichedVideoFrom is the join every enriched video query reads from.
const EnrichedVideoFrom = `videos v
        LEFT JOIN users u ON u.id = v.owner_id`

type argList struct {
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// SQL renders the query with positional arguments. Ties on the sort column
// are broken by id in the same direction so page boundaries are stable.
func (q VideoQuery) SQL() (string, []any) {
	var (
		args  argList
		where []string
	)

	for _, p := range q.Filter {
		switch p := p.(type) {
		case TextMatch:
			ph := args.add("%" + escapeLike(p.Query) + "%")
			where = append(where, fmt.Sprintf("(v.title ILIKE %s OR v.description ILIKE %s)", ph, ph))
		case OwnerMatch:
			where = append(where, "v.owner_id = "+args.add(p.OwnerID))
		}
	}

	column, ok := sortColumns[q.Sort.Field]
	if !ok {
		column = sortColumns[SortCreatedAt]
	}
	dir := q.Sort.Direction.String()

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(EnrichedVideoColumns)
	b.WriteString("\n        FROM ")
	b.WriteString(EnrichedVideoFrom)
	if len(where) > 0 {
		b.WriteString("\n        WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, "\n        ORDER BY %s %s, v.id %s", column, dir, dir)
	limit := args.add(q.Page.Size)
	offset := args.add(q.Page.Offset())
	fmt.Fprintf(&b, "\n        LIMIT %s OFFSET %s", limit, offset)

	return b.String(), args.args
}

// SQL renders the comment listing with its commenter summary.
func (q CommentQuery) SQL() (string, []any) {
	var args argList
	video := args.add(q.VideoID)
	limit := args.add(q.Page.Size)
	offset := args.add(q.Page.Offset())

	return fmt.Sprintf(`SELECT c.id, c.video_id, c.owner_id, c.text, c.created_at, c.updated_at,
               u.id, u.full_name, u.username, u.avatar
        FROM comments c
        LEFT JOIN users u ON u.id = c.owner_id
        WHERE c.video_id = %s
        ORDER BY c.created_at DESC, c.id DESC
        LIMIT %s OFFSET %s`, video, limit, offset), args.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a user query match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
