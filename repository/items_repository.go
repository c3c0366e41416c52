package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gymdash-api/models"

	"github.com/google/uuid"
)

type ItemsRepository struct {
	store DocStore
}

func NewItemsRepository(store DocStore) *ItemsRepository {
	return &ItemsRepository{store: store}
}

func decodeItem(d Doc) (*models.Item, error) {
	var it models.Item
	if err := json.Unmarshal(d.Data, &it); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", d.ID, err)
	}
	it.ID = d.ID
	return &it, nil
}

func (r *ItemsRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	d, err := r.store.Get(ctx, CollectionItems, id)
	if err != nil {
		return nil, err
	}
	return decodeItem(d)
}

// List returns items; ownerID filters to one owner when non-empty.
func (r *ItemsRepository) List(ctx context.Context, ownerID string, offset, limit int) ([]models.Item, int, error) {
	var filters map[string]string
	if ownerID != "" {
		filters = map[string]string{"owner_id": ownerID}
	}
	docs, count, err := r.store.Find(ctx, CollectionItems, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		it, err := decodeItem(d)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, count, nil
}

func (r *ItemsRepository) Create(ctx context.Context, it models.Item) (*models.Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	data, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, CollectionItems, it.ID, data); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemsRepository) Update(ctx context.Context, it models.Item) (*models.Item, error) {
	d, err := r.store.Get(ctx, CollectionItems, it.ID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	if err := r.store.Replace(ctx, CollectionItems, it.ID, data, d.Version); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemsRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionItems, id)
}

// DeleteByOwner removes every item owned by the user. Used when a user
// account is deleted.
func (r *ItemsRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	docs, _, err := r.store.Find(ctx, CollectionItems, map[string]string{"owner_id": ownerID}, 0, 0)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := r.store.Delete(ctx, CollectionItems, d.ID); err != nil {
			return err
		}
	}
	return nil
}
