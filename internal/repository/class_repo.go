package repository

import (
	"context"
	"fmt"

	"craftopia-api/internal/model"
	"craftopia-api/internal/store"
)

type ClassRepository struct {
	coll store.Collection
}

func NewClassRepository(coll store.Collection) *ClassRepository {
	return &ClassRepository{coll: coll}
}

func (r *ClassRepository) Insert(ctx context.Context, c model.Class) (store.InsertResult, error) {
	c.ID = ""
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("insert class: %w", err)
	}
	return res, nil
}

func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	if err := r.coll.Find(ctx, nil, store.FindOptions{}, &classes); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return orEmpty(classes), nil
}

// TopByEnrollment returns at most limit classes, most enrolled first.
func (r *ClassRepository) TopByEnrollment(ctx context.Context, limit int64) ([]model.Class, error) {
	var classes []model.Class
	opts := store.FindOptions{SortField: "enrolled", SortOrder: store.Descending, Limit: limit}
	if err := r.coll.Find(ctx, nil, opts, &classes); err != nil {
		return nil, fmt.Errorf("list top classes: %w", err)
	}
	return orEmpty(classes), nil
}

func (r *ClassRepository) ListByInstructor(ctx context.Context, email string) ([]model.Class, error) {
	var classes []model.Class
	if err := r.coll.Find(ctx, store.Filter{"instructorEmail": email}, store.FindOptions{}, &classes); err != nil {
		return nil, fmt.Errorf("list classes by instructor: %w", err)
	}
	return orEmpty(classes), nil
}

// FindByID returns nil when the class does not exist.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*model.Class, error) {
	var c model.Class
	found, err := r.coll.FindOne(ctx, store.ByID(id), &c)
	if err != nil {
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

func (r *ClassRepository) SetStatus(ctx context.Context, id string, status string) (store.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, store.ByID(id), store.Update{Set: model.ClassStatusUpdate{Status: status}}, false)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("set class status: %w", err)
	}
	return res, nil
}

func (r *ClassRepository) SetFeedback(ctx context.Context, id string, feedback string) (store.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, store.ByID(id), store.Update{Set: model.ClassFeedbackUpdate{Feedback: feedback}}, false)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("set class feedback: %w", err)
	}
	return res, nil
}

// Update applies the instructor's edits, creating the class under owner when
// the id is unknown.
func (r *ClassRepository) Update(ctx context.Context, id string, update model.ClassUpdate, owner model.ClassOwner) (store.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, store.ByID(id), store.Update{Set: update, SetOnInsert: owner}, true)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update class: %w", err)
	}
	return res, nil
}
