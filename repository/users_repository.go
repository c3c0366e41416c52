package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gymdash-api/models"

	"github.com/google/uuid"
)

// updateRetries bounds the optimistic-concurrency loop on user documents.
const updateRetries = 3

type UsersRepository struct {
	store DocStore
}

func NewUsersRepository(store DocStore) *UsersRepository {
	return &UsersRepository{store: store}
}

func decodeUser(d Doc) (*models.User, error) {
	var u models.User
	if err := json.Unmarshal(d.Data, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", d.ID, err)
	}
	u.ID = d.ID
	return &u, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	d, err := r.store.Get(ctx, CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return decodeUser(d)
}

// GetByEmail returns ErrNotFound when no user has the email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, _, err := r.store.Find(ctx, CollectionUsers, map[string]string{"email": email}, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return decodeUser(docs[0])
}

func (r *UsersRepository) List(ctx context.Context, offset, limit int) ([]models.User, int, error) {
	docs, count, err := r.store.Find(ctx, CollectionUsers, nil, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		u, err := decodeUser(d)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, count, nil
}

// Create stores a new user document. The caller provides an already-hashed
// password. A fresh UUID is assigned when the id is empty.
func (r *UsersRepository) Create(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Exercises == nil {
		u.Exercises = []models.ExercisePerformanceEntry{}
	}
	if u.Activities == nil {
		u.Activities = []models.ActivityAssignment{}
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, CollectionUsers, u.ID, data); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionUsers, id)
}

// Update applies fn to the current user document and writes the full
// replacement back under an optimistic-concurrency loop: read doc+version,
// transform, compare-and-swap, retry on version conflict. fn must be pure
// with respect to the passed user; it runs once per attempt.
//
// This is the single write path for every user-document mutation, which
// serializes concurrent assign/unassign/move operations on the same user
// without a process-wide lock.
func (r *UsersRepository) Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	var lastErr error
	for attempt := 0; attempt < updateRetries; attempt++ {
		d, err := r.store.Get(ctx, CollectionUsers, id)
		if err != nil {
			return nil, err
		}
		u, err := decodeUser(d)
		if err != nil {
			return nil, err
		}
		if err := fn(u); err != nil {
			return nil, err
		}
		u.ID = id
		data, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		err = r.store.Replace(ctx, CollectionUsers, id, data, d.Version)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
