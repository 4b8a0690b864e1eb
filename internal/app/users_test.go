package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type memoryUserStore struct {
	users map[string]models.User
}

func (s *memoryUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func TestCreateAndGetUser(t *testing.T) {
	store := &memoryUserStore{users: map[string]models.User{}}
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	in := newUserInput{FullName: " Ada Lovelace ", Username: "Ada", Email: "ADA@example.com"}
	if err := createUser(context.Background(), &out, store, in, now); err != nil {
		t.Fatalf("create user: %v", err)
	}

	var created models.User
	if err := json.Unmarshal(out.Bytes(), &created); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if created.Username != "ada" || created.Email != "ada@example.com" || created.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected user: %+v", created)
	}

	out.Reset()
	if err := getUser(context.Background(), &out, store, created.ID); err != nil {
		t.Fatalf("get user: %v", err)
	}

	if err := createUser(context.Background(), &out, store, in, now); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected conflict for duplicate user, got %v", err)
	}
}

func TestCreateUserValidates(t *testing.T) {
	store := &memoryUserStore{users: map[string]models.User{}}

	err := createUser(context.Background(), &bytes.Buffer{}, store, newUserInput{FullName: "X", Username: "x", Email: "nope"}, time.Now())
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUserRejectsMalformedID(t *testing.T) {
	store := &memoryUserStore{users: map[string]models.User{}}

	err := getUser(context.Background(), &bytes.Buffer{}, store, "42")
	if !errors.Is(err, apperrors.ErrInvalidIdentifier) {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
}
