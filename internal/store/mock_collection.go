package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCollection is a testify double for Collection. FindOne and Find leave
// out untouched; use Run to populate it.
type MockCollection struct {
	mock.Mock
}

func (m *MockCollection) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCollection) FindOne(ctx context.Context, filter Filter, out any) (bool, error) {
	args := m.Called(ctx, filter, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	args := m.Called(ctx, filter, opts, out)
	return args.Error(0)
}

func (m *MockCollection) InsertOne(ctx context.Context, doc any) (InsertResult, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(InsertResult), args.Error(1)
}

func (m *MockCollection) UpdateOne(ctx context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error) {
	args := m.Called(ctx, filter, update, upsert)
	return args.Get(0).(UpdateResult), args.Error(1)
}

func (m *MockCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(DeleteResult), args.Error(1)
}
