package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gymdash-api/models"

	"github.com/google/uuid"
)

type ExercisesRepository struct {
	store DocStore
}

func NewExercisesRepository(store DocStore) *ExercisesRepository {
	return &ExercisesRepository{store: store}
}

func decodeExercise(d Doc) (*models.Exercise, error) {
	var e models.Exercise
	if err := json.Unmarshal(d.Data, &e); err != nil {
		return nil, fmt.Errorf("decode exercise %s: %w", d.ID, err)
	}
	e.ID = d.ID
	return &e, nil
}

func (r *ExercisesRepository) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	d, err := r.store.Get(ctx, CollectionExercises, id)
	if err != nil {
		return nil, err
	}
	return decodeExercise(d)
}

// ListActive returns active exercises; ownerID filters to one owner when
// non-empty (superusers pass "" to see everyone's).
func (r *ExercisesRepository) ListActive(ctx context.Context, ownerID string, offset, limit int) ([]models.Exercise, int, error) {
	filters := map[string]string{"is_active": "true"}
	if ownerID != "" {
		filters["owner_id"] = ownerID
	}
	docs, count, err := r.store.Find(ctx, CollectionExercises, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	exercises := make([]models.Exercise, 0, len(docs))
	for _, d := range docs {
		e, err := decodeExercise(d)
		if err != nil {
			return nil, 0, err
		}
		exercises = append(exercises, *e)
	}
	return exercises, count, nil
}

func (r *ExercisesRepository) Create(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.IsActive = true
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, CollectionExercises, e.ID, data); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update writes the full replacement exercise document.
func (r *ExercisesRepository) Update(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	d, err := r.store.Get(ctx, CollectionExercises, e.ID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	if err := r.store.Replace(ctx, CollectionExercises, e.ID, data, d.Version); err != nil {
		return nil, err
	}
	return &e, nil
}

// Deactivate soft-deletes the exercise. Ledger history referencing it is
// untouched.
func (r *ExercisesRepository) Deactivate(ctx context.Context, id string) error {
	d, err := r.store.Get(ctx, CollectionExercises, id)
	if err != nil {
		return err
	}
	e, err := decodeExercise(d)
	if err != nil {
		return err
	}
	e.IsActive = false
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.store.Replace(ctx, CollectionExercises, id, data, d.Version)
}
