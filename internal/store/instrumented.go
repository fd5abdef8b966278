package store

import (
	"context"
	"time"
)

// Observer receives one call per completed collection operation.
type Observer interface {
	ObserveStoreOperation(collection string, operation string, err error, elapsed time.Duration)
}

// Instrument wraps a collection so every operation is reported to observer.
func Instrument(c Collection, observer Observer) Collection {
	if observer == nil {
		return c
	}
	return &instrumentedCollection{next: c, observer: observer}
}

type instrumentedCollection struct {
	next     Collection
	observer Observer
}

func (c *instrumentedCollection) Name() string {
	return c.next.Name()
}

func (c *instrumentedCollection) FindOne(ctx context.Context, filter Filter, out any) (bool, error) {
	started := time.Now()
	found, err := c.next.FindOne(ctx, filter, out)
	c.observer.ObserveStoreOperation(c.next.Name(), "find_one", err, time.Since(started))
	return found, err
}

func (c *instrumentedCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	started := time.Now()
	err := c.next.Find(ctx, filter, opts, out)
	c.observer.ObserveStoreOperation(c.next.Name(), "find", err, time.Since(started))
	return err
}

func (c *instrumentedCollection) InsertOne(ctx context.Context, doc any) (InsertResult, error) {
	started := time.Now()
	res, err := c.next.InsertOne(ctx, doc)
	c.observer.ObserveStoreOperation(c.next.Name(), "insert_one", err, time.Since(started))
	return res, err
}

func (c *instrumentedCollection) UpdateOne(ctx context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error) {
	started := time.Now()
	res, err := c.next.UpdateOne(ctx, filter, update, upsert)
	c.observer.ObserveStoreOperation(c.next.Name(), "update_one", err, time.Since(started))
	return res, err
}

func (c *instrumentedCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	started := time.Now()
	res, err := c.next.DeleteOne(ctx, filter)
	c.observer.ObserveStoreOperation(c.next.Name(), "delete_one", err, time.Since(started))
	return res, err
}
