//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"craftopia-api/internal/database"
	"craftopia-api/internal/model"
	"craftopia-api/internal/store"
)

func newMongoStore(t *testing.T) *store.Mongo {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping mongo store tests")
	}
	_ = provider.Close()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("failed to start mongo container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := database.ConnectMongo(ctx, uri, 10*time.Second)
	require.NoError(t, err)

	st := store.NewMongo(client, "craftopia_test")
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func TestMongoCollection(t *testing.T) {
	st := newMongoStore(t)
	ctx := context.Background()
	require.NoError(t, st.Ping(ctx))

	users := st.Collection(store.UsersCollection)
	classes := st.Collection(store.ClassesCollection)

	t.Run("profile extras are stored inline", func(t *testing.T) {
		filter := store.Filter{"email": "a@x.com"}
		update := store.Update{
			Set:         model.UserProfile{Email: "a@x.com", Name: "Ann", Extra: map[string]any{"phone": "555-0100"}},
			SetOnInsert: map[string]any{"role": model.RoleStudent},
		}

		res, err := users.UpdateOne(ctx, filter, update, true)
		require.NoError(t, err)
		require.EqualValues(t, 1, res.UpsertedCount)
		require.NotNil(t, res.UpsertedID)

		var got model.User
		found, err := users.FindOne(ctx, filter, &got)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, *res.UpsertedID, got.ID)
		require.Equal(t, model.RoleStudent, got.Role)
		require.Equal(t, "555-0100", got.Extra["phone"])
	})

	t.Run("object ids round trip as hex", func(t *testing.T) {
		inserted, err := classes.InsertOne(ctx, model.Class{ClassName: "Glass", Status: model.ClassStatusPending})
		require.NoError(t, err)
		require.Len(t, inserted.InsertedID, 24)

		res, err := classes.UpdateOne(ctx, store.ByID(inserted.InsertedID), store.Update{Set: map[string]any{"status": "approved"}}, false)
		require.NoError(t, err)
		require.EqualValues(t, 1, res.ModifiedCount)

		var got model.Class
		found, err := classes.FindOne(ctx, store.ByID(inserted.InsertedID), &got)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, inserted.InsertedID, got.ID)
		require.Equal(t, "approved", got.Status)

		deleted, err := classes.DeleteOne(ctx, store.ByID(inserted.InsertedID))
		require.NoError(t, err)
		require.EqualValues(t, 1, deleted.DeletedCount)
	})
}
