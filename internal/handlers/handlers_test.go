package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/catalog"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/interactions"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

const (
	actorA = "6f1c1d2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f"
	actorB = "0b7c8d9e-1f2a-4b3c-9d4e-5f6a7b8c9d0e"
	video1 = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

type relationKey struct {
	user   string
	target models.LikeTarget
}

type memoryInteractionStore struct {
	mu    sync.Mutex
	likes map[relationKey]bool
	subs  map[[2]string]bool
}

func newMemoryInteractionStore() *memoryInteractionStore {
	return &memoryInteractionStore{likes: map[relationKey]bool{}, subs: map[[2]string]bool{}}
}

func (s *memoryInteractionStore) ToggleLike(_ context.Context, userID string, target models.LikeTarget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := relationKey{user: userID, target: target}
	if s.likes[key] {
		delete(s.likes, key)
		return false, nil
	}
	s.likes[key] = true
	return true, nil
}

func (s *memoryInteractionStore) ToggleSubscription(_ context.Context, subscriberID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{subscriberID, channelID}
	if s.subs[key] {
		delete(s.subs, key)
		return false, nil
	}
	s.subs[key] = true
	return true, nil
}

func (s *memoryInteractionStore) ListLikedVideos(context.Context, string) ([]models.LikedVideo, error) {
	return nil, nil
}

type feedStub struct {
	params   feed.VideoParams
	listedID string
	page     int
	limit    int
	err      error
}

func (f *feedStub) ListVideos(_ context.Context, params feed.VideoParams) ([]models.EnrichedVideo, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return []models.EnrichedVideo{}, nil
}

func (f *feedStub) ListChannelVideos(_ context.Context, channelID string, page, limit int) ([]models.EnrichedVideo, error) {
	f.listedID, f.page, f.limit = channelID, page, limit
	return []models.EnrichedVideo{{Video: models.Video{ID: video1, OwnerID: channelID}}}, nil
}

func (f *feedStub) ListComments(_ context.Context, videoID string, page, limit int) ([]models.EnrichedComment, error) {
	f.listedID, f.page, f.limit = videoID, page, limit
	return []models.EnrichedComment{}, nil
}

func (f *feedStub) ListSubscribers(_ context.Context, channelID string) ([]models.SubscriberEntry, error) {
	f.listedID = channelID
	return []models.SubscriberEntry{{Subscription: models.Subscription{ID: "s1", SubscriberID: actorA, ChannelID: channelID}}}, nil
}

func (f *feedStub) ListSubscriptions(_ context.Context, subscriberID string) ([]models.SubscribedChannelEntry, error) {
	f.listedID = subscriberID
	return []models.SubscribedChannelEntry{}, nil
}

type tweetServiceStub struct {
	created   string
	deleteErr error
}

func (s *tweetServiceStub) Create(_ context.Context, actorID, content string) (models.Tweet, error) {
	s.created = content
	return models.Tweet{ID: "t1", OwnerID: actorID, Content: content}, nil
}

func (s *tweetServiceStub) ListByUser(context.Context, string) ([]models.Tweet, error) {
	return []models.Tweet{}, nil
}

func (s *tweetServiceStub) Update(_ context.Context, actorID, tweetID, content string) (models.Tweet, error) {
	return models.Tweet{ID: tweetID, OwnerID: actorID, Content: content}, nil
}

func (s *tweetServiceStub) Delete(context.Context, string, string) error {
	return s.deleteErr
}

type videoServiceStub struct {
	published catalog.PublishInput
	videoBody string
}

func (s *videoServiceStub) Publish(_ context.Context, actorID string, in catalog.PublishInput) (models.Video, error) {
	s.published = in
	if in.VideoFile != nil {
		body, _ := io.ReadAll(in.VideoFile.Body)
		s.videoBody = string(body)
	}
	return models.Video{ID: video1, OwnerID: actorID, Title: in.Title, IsPublished: true}, nil
}

func (s *videoServiceStub) Get(context.Context, string, string) (models.EnrichedVideo, error) {
	return models.EnrichedVideo{}, apperrors.NotFound("video not found")
}

func (s *videoServiceStub) Update(context.Context, string, string, models.VideoPatch) (models.Video, error) {
	return models.Video{}, nil
}

func (s *videoServiceStub) Delete(context.Context, string, string) error { return nil }

func (s *videoServiceStub) TogglePublish(context.Context, string, string) (models.Video, error) {
	return models.Video{}, nil
}

func (s *videoServiceStub) WatchHistory(context.Context, string) ([]models.WatchEntry, error) {
	return []models.WatchEntry{}, nil
}

type countingLimiter struct {
	allowed int
	keys    []string
}

func (l *countingLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	if l.allowed <= 0 {
		return false
	}
	l.allowed--
	return true
}

func newTestRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Actor)
	RegisterRoutes(r, deps)
	return r
}

func newDeps() Dependencies {
	return Dependencies{
		Videos:          &videoServiceStub{},
		Feed:            &feedStub{},
		Tweets:          &tweetServiceStub{},
		Interactions:    interactions.NewEngine(newMemoryInteractionStore()),
		DefaultPageSize: 10,
	}
}

func do(t *testing.T, h http.Handler, method, path, actor string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func TestHealthRoute(t *testing.T) {
	rec := do(t, newTestRouter(newDeps()), http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type got %s", got)
	}

	rec = do(t, newTestRouter(newDeps()), http.MethodPost, "/healthz", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed got %d", rec.Code)
	}
}

func TestToggleRequiresActor(t *testing.T) {
	rec := do(t, newTestRouter(newDeps()), http.MethodPost, "/api/v1/likes/toggle/v/"+video1, "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Code != apperrors.KindUnauthorized || env.StatusCode != http.StatusUnauthorized || env.Success {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestToggleVideoLikeFlipsState(t *testing.T) {
	router := newTestRouter(newDeps())

	for i, want := range []bool{true, false, true} {
		rec := do(t, router, http.MethodPost, "/api/v1/likes/toggle/v/"+video1, actorA, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle %d: expected 200 got %d", i, rec.Code)
		}
		var env struct {
			Data    models.ToggleResult `json:"data"`
			Success bool                `json:"success"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !env.Success || env.Data.Active != want {
			t.Fatalf("toggle %d: expected active=%v, got %+v", i, want, env)
		}
	}
}

func TestToggleRejectsMalformedTarget(t *testing.T) {
	rec := do(t, newTestRouter(newDeps()), http.MethodPost, "/api/v1/likes/toggle/c/not-an-id", actorA, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Code != apperrors.KindInvalidIdentifier || env.Message != "invalid comment ID" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestSelfSubscriptionForbidden(t *testing.T) {
	router := newTestRouter(newDeps())

	rec := do(t, router, http.MethodPost, "/api/v1/subscriptions/c/"+actorA, actorA, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/v1/subscriptions/c/"+actorB, actorA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestToggleRateLimitedPerActor(t *testing.T) {
	deps := newDeps()
	limiter := &countingLimiter{allowed: 1}
	deps.ToggleLimiter = limiter
	router := newTestRouter(deps)

	if rec := do(t, router, http.MethodPost, "/api/v1/likes/toggle/v/"+video1, actorA, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected first toggle to pass, got %d", rec.Code)
	}
	rec := do(t, router, http.MethodPost, "/api/v1/likes/toggle/v/"+video1, actorA, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Code != apperrors.KindRateLimited {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if limiter.keys[0] != "toggle:"+actorA {
		t.Fatalf("expected limiter keyed on actor, got %q", limiter.keys[0])
	}
}

func TestToggleRateLimitSetsRetryAfter(t *testing.T) {
	deps := newDeps()
	deps.ToggleLimiter = middleware.NewKeyedRateLimiter(1, time.Minute, 1, time.Hour)
	router := newTestRouter(deps)

	do(t, router, http.MethodPost, "/api/v1/likes/toggle/t/"+video1, actorA, nil)
	rec := do(t, router, http.MethodPost, "/api/v1/likes/toggle/t/"+video1, actorA, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got == "" || got == "0" {
		t.Fatalf("expected a positive Retry-After header, got %q", got)
	}
}

func TestListVideosForwardsQuery(t *testing.T) {
	deps := newDeps()
	stub := deps.Feed.(*feedStub)
	router := newTestRouter(deps)

	rec := do(t, router, http.MethodGet, "/api/v1/videos?page=2&limit=5&query=go&sortBy=views&sortType=asc&userId="+actorB, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := feed.VideoParams{Query: "go", OwnerID: actorB, SortBy: "views", SortType: "asc", Page: 2, Limit: 5}
	if stub.params != want {
		t.Fatalf("unexpected params: got %+v want %+v", stub.params, want)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.params.Page != 1 || stub.params.Limit != 10 {
		t.Fatalf("expected default paging, got %+v", stub.params)
	}
}

func TestListVideosRejectsMalformedPage(t *testing.T) {
	rec := do(t, newTestRouter(newDeps()), http.MethodGet, "/api/v1/videos?page=abc", "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Code != apperrors.KindInvalidPage {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestListVideosMapsServiceErrors(t *testing.T) {
	deps := newDeps()
	deps.Feed.(*feedStub).err = apperrors.InvalidSortField("title")

	rec := do(t, newTestRouter(deps), http.MethodGet, "/api/v1/videos?sortBy=title", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Code != apperrors.KindInvalidSortField {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestCreateTweetValidation(t *testing.T) {
	deps := newDeps()
	router := newTestRouter(deps)

	rec := do(t, router, http.MethodPost, "/api/v1/tweets", actorA, strings.NewReader(`{"content":"   "}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeError(t, rec)
	details, ok := env.Details.(map[string]any)
	if env.Code != apperrors.KindValidation || !ok || details["content"] != "is required" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	rec = do(t, router, http.MethodPost, "/api/v1/tweets", actorA, strings.NewReader(`{"content":"hello"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if got := deps.Tweets.(*tweetServiceStub).created; got != "hello" {
		t.Fatalf("expected tweet content to be forwarded, got %q", got)
	}

	rec = do(t, router, http.MethodPost, "/api/v1/tweets", actorA, strings.NewReader(`{`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body got %d", rec.Code)
	}
}

func TestDeleteTweetNotFound(t *testing.T) {
	deps := newDeps()
	deps.Tweets.(*tweetServiceStub).deleteErr = apperrors.NotFound("tweet not found or not authorized to delete")

	rec := do(t, newTestRouter(deps), http.MethodDelete, "/api/v1/tweets/"+video1, actorA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestGetVideoNotFound(t *testing.T) {
	rec := do(t, newTestRouter(newDeps()), http.MethodGet, "/api/v1/videos/"+video1, actorA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Message != "video not found" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestPublishVideoMultipart(t *testing.T) {
	deps := newDeps()
	router := newTestRouter(deps)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Learning Go")
	_ = mw.WriteField("description", "basics")
	writeFilePart(t, mw, "videoFile", "clip.mp4", "video/mp4", "video-bytes")
	writeFilePart(t, mw, "thumbnail", "thumb.png", "image/png", "png-bytes")
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.ActorHeader, actorA)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	stub := deps.Videos.(*videoServiceStub)
	in := stub.published
	if in.Title != "Learning Go" || in.Description != "basics" {
		t.Fatalf("unexpected publish input: %+v", in)
	}
	if in.VideoFile == nil || in.VideoFile.Name != "clip.mp4" || in.VideoFile.ContentType != "video/mp4" {
		t.Fatalf("unexpected video file: %+v", in.VideoFile)
	}
	if in.Thumbnail == nil || in.Thumbnail.Name != "thumb.png" {
		t.Fatalf("unexpected thumbnail: %+v", in.Thumbnail)
	}
	if stub.videoBody != "video-bytes" {
		t.Fatalf("expected video body to be streamed, got %q", stub.videoBody)
	}
}

func TestPublishVideoRequiresTitle(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", " ")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.ActorHeader, actorA)
	rec := httptest.NewRecorder()
	newTestRouter(newDeps()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if env := decodeError(t, rec); env.Code != apperrors.KindValidation {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func writeFilePart(t *testing.T, mw *multipart.Writer, field, filename, contentType, content string) {
	t.Helper()
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
}
