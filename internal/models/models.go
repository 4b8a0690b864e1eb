package models

import "time"

// User represents an account within the vidtube platform. In its role as a
// content owner and subscription target a user is called a channel.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the shallow projection used to enrich listings.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Contact is the counterpart projection used by subscription listings.
type Contact struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Video is a published catalog entry owned by a single user.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EnrichedVideo is a video with its owner reference resolved. Owner is nil
// when the owning user record is missing.
type EnrichedVideo struct {
	Video
	Owner *UserSummary `json:"owner"`
}

// VideoPatch carries the owner-editable fields of a video. Nil fields are
// left unchanged.
type VideoPatch struct {
	Title       *string
	Description *string
	Thumbnail   *string
}

// Empty reports whether the patch changes nothing.
func (p VideoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Thumbnail == nil
}

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a text reply attached to a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EnrichedComment is a comment with its author resolved.
type EnrichedComment struct {
	Comment
	Owner *UserSummary `json:"owner"`
}

// TargetKind names the entity a like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// Valid reports whether k is one of the likeable kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

// LikeTarget is the tagged variant a like points at. Exactly one entity is
// referenced: the kind selects which table ID belongs to.
type LikeTarget struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

// VideoTarget, CommentTarget and TweetTarget build the three variants.
func VideoTarget(id string) LikeTarget   { return LikeTarget{Kind: TargetVideo, ID: id} }
func CommentTarget(id string) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }
func TweetTarget(id string) LikeTarget   { return LikeTarget{Kind: TargetTweet, ID: id} }

// LikedVideo pairs a video like with the liked video.
type LikedVideo struct {
	LikeID  string        `json:"likeId"`
	LikedAt time.Time     `json:"likedAt"`
	Video   EnrichedVideo `json:"video"`
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SubscriberEntry is a subscription enriched with the subscriber's contact.
type SubscriberEntry struct {
	Subscription
	Subscriber *Contact `json:"subscriber"`
}

// SubscribedChannelEntry is a subscription enriched with the channel's contact.
type SubscribedChannelEntry struct {
	Subscription
	Channel *Contact `json:"channel"`
}

// ToggleResult reports the relation state after a toggle.
type ToggleResult struct {
	Active bool `json:"active"`
}

// ChannelStats summarises a channel for dashboards.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalViews       int64 `json:"totalViews"`
}

// WatchEntry is one element of a user's watch history.
type WatchEntry struct {
	Video     EnrichedVideo `json:"video"`
	WatchedAt time.Time     `json:"watchedAt"`
}

// MediaAsset is the result of handing a file to the media upload collaborator.
type MediaAsset struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}
