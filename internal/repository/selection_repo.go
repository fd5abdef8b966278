package repository

import (
	"context"
	"fmt"

	"craftopia-api/internal/model"
	"craftopia-api/internal/store"
)

type SelectionRepository struct {
	coll store.Collection
}

func NewSelectionRepository(coll store.Collection) *SelectionRepository {
	return &SelectionRepository{coll: coll}
}

func (r *SelectionRepository) Insert(ctx context.Context, s model.Selection) (store.InsertResult, error) {
	s.ID = ""
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("insert selection: %w", err)
	}
	return res, nil
}

func (r *SelectionRepository) ListByStudent(ctx context.Context, email string) ([]model.Selection, error) {
	var selections []model.Selection
	if err := r.coll.Find(ctx, store.Filter{"email": email}, store.FindOptions{}, &selections); err != nil {
		return nil, fmt.Errorf("list selections by student: %w", err)
	}
	return orEmpty(selections), nil
}

// FindByID returns nil when the selection does not exist.
func (r *SelectionRepository) FindByID(ctx context.Context, id string) (*model.Selection, error) {
	var s model.Selection
	found, err := r.coll.FindOne(ctx, store.ByID(id), &s)
	if err != nil {
		return nil, fmt.Errorf("find selection by id: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

func (r *SelectionRepository) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, store.ByID(id))
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete selection: %w", err)
	}
	return res, nil
}
