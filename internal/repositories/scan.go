package repositories

import (
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/models"
)

const videoColumns = `id, owner_id, title, description, video_file, thumbnail, duration, views, is_published, created_at, updated_at`

func videoDest(v *models.Video) []any {
	return []any{&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoFile, &v.Thumbnail,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt}
}

// summaryColumns receives the nullable side of a LEFT JOIN on users.
type summaryColumns struct {
	id, fullName, username, avatar *string
}

func (s *summaryColumns) dest() []any {
	return []any{&s.id, &s.fullName, &s.username, &s.avatar}
}

func (s *summaryColumns) summary() *models.UserSummary {
	if s.id == nil {
		return nil
	}
	return &models.UserSummary{
		ID:       *s.id,
		FullName: deref(s.fullName),
		Username: deref(s.username),
		Avatar:   deref(s.avatar),
	}
}

// scanEnrichedVideo reads feed.EnrichedVideoColumns followed by extra.
func scanEnrichedVideo(row pgx.Row, extra ...any) (models.EnrichedVideo, error) {
	var (
		video models.EnrichedVideo
		owner summaryColumns
	)
	dest := append(videoDest(&video.Video), owner.dest()...)
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.EnrichedVideo{}, err
	}
	video.Owner = owner.summary()
	return video, nil
}

func scanEnrichedComment(row pgx.Row) (models.EnrichedComment, error) {
	var (
		comment models.EnrichedComment
		owner   summaryColumns
	)
	dest := append([]any{&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Text, &comment.CreatedAt, &comment.UpdatedAt}, owner.dest()...)
	if err := row.Scan(dest...); err != nil {
		return models.EnrichedComment{}, err
	}
	comment.Owner = owner.summary()
	return comment, nil
}

// contactColumns receives the nullable counterpart of a subscription listing.
type contactColumns struct {
	id, fullName, email *string
}

func (c *contactColumns) dest() []any {
	return []any{&c.id, &c.fullName, &c.email}
}

func (c *contactColumns) contact() *models.Contact {
	if c.id == nil {
		return nil
	}
	return &models.Contact{ID: *c.id, FullName: deref(c.fullName), Email: deref(c.email)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
