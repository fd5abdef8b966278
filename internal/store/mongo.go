package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo serves collections from one database of a connected client.
// String ids that parse as ObjectIDs are matched as ObjectIDs; ObjectIDs
// decode into string fields as hex.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{client: client, db: client.Database(database)}
}

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name), name: name}
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
	name string
}

func (c *mongoCollection) Name() string {
	return c.name
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter, out any) (bool, error) {
	err := c.coll.FindOne(ctx, mongoFilter(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find one in %s: %w", c.name, err)
	}
	return true, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	findOpts := options.Find()
	if opts.SortField != "" {
		order := int(opts.SortOrder)
		if order == 0 {
			order = int(Ascending)
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: order}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := c.coll.Find(ctx, mongoFilter(filter), findOpts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode documents from %s: %w", c.name, err)
	}
	return nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) (InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, update Update, upsert bool) (UpdateResult, error) {
	doc := bson.M{}
	if update.Set != nil {
		doc["$set"] = update.Set
	}
	if update.SetOnInsert != nil {
		doc["$setOnInsert"] = update.SetOnInsert
	}

	res, err := c.coll.UpdateOne(ctx, mongoFilter(filter), doc, options.Update().SetUpsert(upsert))
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update in %s: %w", c.name, err)
	}

	result := UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id := idString(res.UpsertedID)
		result.UpsertedID = &id
	}
	return result, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, mongoFilter(filter))
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete from %s: %w", c.name, err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func mongoFilter(filter Filter) bson.M {
	out := bson.M{}
	for k, v := range filter {
		if k == IDField {
			if s, ok := v.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					out[k] = oid
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
