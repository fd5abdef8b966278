// Package store is the document-store capability the API is built on: a set of
// named collections supporting find, insert, update-with-upsert and delete by
// equality filter. Backends live side by side (mongo, postgres, memory).
package store

import (
	"context"
	"fmt"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	UsersCollection      = "usersCollection"
	ClassesCollection    = "classCollection"
	SelectionsCollection = "selectedClassCollection"
)

// IDField is the document key every backend uses for the primary id.
const IDField = "_id"

// Filter matches documents whose fields equal the given values.
type Filter map[string]any

func ByID(id string) Filter {
	return Filter{IDField: id}
}

type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

type FindOptions struct {
	SortField string
	SortOrder SortOrder
	Limit     int64
}

// Update mirrors a $set / $setOnInsert pair. SetOnInsert is applied only when
// an upsert creates the document.
type Update struct {
	Set         any
	SetOnInsert any
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is one named set of documents. out arguments follow
// encoding/json conventions: a pointer to a struct for FindOne and a pointer
// to a slice for Find.
type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter Filter, out any) (bool, error)
	Find(ctx context.Context, filter Filter, opts FindOptions, out any) error
	InsertOne(ctx context.Context, doc any) (InsertResult, error)
	UpdateOne(ctx context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func ValidDriver(driver string) error {
	switch driver {
	case DriverMongo, DriverPostgres, DriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", driver)
	}
}
