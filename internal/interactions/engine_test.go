package interactions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/models"
)

type memoryStore struct {
	mu    sync.Mutex
	likes map[string]bool
	subs  map[string]bool
	calls int
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{likes: map[string]bool{}, subs: map[string]bool{}}
}

func (s *memoryStore) ToggleLike(_ context.Context, userID string, target models.LikeTarget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	key := userID + "|" + string(target.Kind) + "|" + target.ID
	if s.likes[key] {
		delete(s.likes, key)
		return false, nil
	}
	s.likes[key] = true
	return true, nil
}

func (s *memoryStore) ToggleSubscription(_ context.Context, subscriberID, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := subscriberID + "|" + channelID
	if s.subs[key] {
		delete(s.subs, key)
		return false, nil
	}
	s.subs[key] = true
	return true, nil
}

func (s *memoryStore) ListLikedVideos(context.Context, string) ([]models.LikedVideo, error) {
	return nil, s.err
}

func TestToggleLikeFlipsState(t *testing.T) {
	engine := NewEngine(newMemoryStore())
	ctx := context.Background()
	actor, video := ids.New(), ids.New()

	for i, want := range []bool{true, false, true} {
		res, err := engine.ToggleVideoLike(ctx, actor, video)
		if err != nil {
			t.Fatalf("toggle %d returned error: %v", i, err)
		}
		if res.Active != want {
			t.Fatalf("toggle %d: expected active=%v, got %v", i, want, res.Active)
		}
	}
}

func TestToggleLikeKindsAreIndependent(t *testing.T) {
	engine := NewEngine(newMemoryStore())
	ctx := context.Background()
	actor, target := ids.New(), ids.New()

	first, _ := engine.ToggleCommentLike(ctx, actor, target)
	second, _ := engine.ToggleTweetLike(ctx, actor, target)
	if !first.Active || !second.Active {
		t.Fatalf("expected both likes to be created, got %v and %v", first.Active, second.Active)
	}
}

func TestToggleLikeConcurrentPairsCancelOut(t *testing.T) {
	store := newMemoryStore()
	engine := NewEngine(store)
	actor, video := ids.New(), ids.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.ToggleVideoLike(context.Background(), actor, video); err != nil {
				t.Errorf("toggle returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(store.likes) != 0 {
		t.Fatalf("expected an even number of toggles to leave no like, got %d", len(store.likes))
	}
}

func TestToggleLikeRejectsMalformedInput(t *testing.T) {
	store := newMemoryStore()
	engine := NewEngine(store)
	ctx := context.Background()

	if _, err := engine.ToggleVideoLike(ctx, ids.New(), "abc"); !errors.Is(err, apperrors.ErrInvalidIdentifier) {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
	if _, err := engine.ToggleLike(ctx, ids.New(), models.LikeTarget{Kind: "playlist", ID: ids.New()}); !errors.Is(err, apperrors.ErrInvalidIdentifier) {
		t.Fatalf("expected invalid identifier for unknown kind, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be called for rejected input, got %d calls", store.calls)
	}
}

func TestToggleLikeWrapsStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("serialization failure")
	engine := NewEngine(store)

	if _, err := engine.ToggleVideoLike(context.Background(), ids.New(), ids.New()); !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestToggleSubscription(t *testing.T) {
	store := newMemoryStore()
	engine := NewEngine(store)
	ctx := context.Background()
	actor, channel := ids.New(), ids.New()

	res, err := engine.ToggleSubscription(ctx, actor, channel)
	if err != nil || !res.Active {
		t.Fatalf("expected subscription to be created, got %v, %v", res, err)
	}
	res, err = engine.ToggleSubscription(ctx, actor, channel)
	if err != nil || res.Active {
		t.Fatalf("expected subscription to be removed, got %v, %v", res, err)
	}
}

func TestToggleSubscriptionRejectsSelf(t *testing.T) {
	store := newMemoryStore()
	engine := NewEngine(store)
	actor := ids.New()

	_, err := engine.ToggleSubscription(context.Background(), actor, actor)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be called for self subscription")
	}
}

func TestLikedVideosEmpty(t *testing.T) {
	liked, err := NewEngine(newMemoryStore()).LikedVideos(context.Background(), ids.New())
	if err != nil {
		t.Fatalf("LikedVideos returned error: %v", err)
	}
	if liked == nil {
		t.Fatal("expected non-nil empty slice")
	}
}
