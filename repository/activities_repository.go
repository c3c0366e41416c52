package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gymdash-api/models"

	"github.com/google/uuid"
)

type ActivitiesRepository struct {
	store DocStore
}

func NewActivitiesRepository(store DocStore) *ActivitiesRepository {
	return &ActivitiesRepository{store: store}
}

func decodeActivity(d Doc) (*models.Activity, error) {
	var a models.Activity
	if err := json.Unmarshal(d.Data, &a); err != nil {
		return nil, fmt.Errorf("decode activity %s: %w", d.ID, err)
	}
	a.ID = d.ID
	return &a, nil
}

func (r *ActivitiesRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	d, err := r.store.Get(ctx, CollectionActivities, id)
	if err != nil {
		return nil, err
	}
	return decodeActivity(d)
}

// List returns activities; userID filters to one owner when non-empty.
func (r *ActivitiesRepository) List(ctx context.Context, userID string, offset, limit int) ([]models.Activity, int, error) {
	var filters map[string]string
	if userID != "" {
		filters = map[string]string{"user_id": userID}
	}
	docs, count, err := r.store.Find(ctx, CollectionActivities, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	activities := make([]models.Activity, 0, len(docs))
	for _, d := range docs {
		a, err := decodeActivity(d)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, *a)
	}
	return activities, count, nil
}

func (r *ActivitiesRepository) Create(ctx context.Context, a models.Activity) (*models.Activity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Exercises == nil {
		a.Exercises = []string{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, CollectionActivities, a.ID, data); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivitiesRepository) Update(ctx context.Context, a models.Activity) (*models.Activity, error) {
	d, err := r.store.Get(ctx, CollectionActivities, a.ID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	if err := r.store.Replace(ctx, CollectionActivities, a.ID, data, d.Version); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivitiesRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionActivities, id)
}
