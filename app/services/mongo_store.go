package services

import (
	"context"

	"todo-lists/app/models"

	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore keeps each list as one document with its items embedded.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore uses the given collection of an already connected client.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// FindLists retrieves a page of lists in natural order.
func (s *MongoStore) FindLists(ctx context.Context, offset, limit int64) ([]models.List, error) {
	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSkip(offset).SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "finding lists")
	}

	lists := []models.List{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, errors.Wrap(err, "decoding lists")
	}
	return lists, nil
}

// CreateList inserts a list with no items and reads it back.
func (s *MongoStore) CreateList(ctx context.Context, title string) (*models.List, error) {
	list := models.NewList(title)
	res, err := s.collection.InsertOne(ctx, list)
	if err != nil {
		return nil, errors.Wrap(err, "inserting list")
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return s.FindList(ctx, id)
}

// FindList retrieves a single list by its ID.
func (s *MongoStore) FindList(ctx context.Context, id primitive.ObjectID) (*models.List, error) {
	list := &models.List{}
	err := s.collection.FindOne(ctx, bson.M{models.ListIDKey: id}).Decode(list)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding list '%s'", id.Hex())
	}
	return list, nil
}

// UpdateListTitle sets the title of a list.
func (s *MongoStore) UpdateListTitle(ctx context.Context, id primitive.ObjectID, title string) (*models.List, error) {
	list, err := s.findOneAndUpdate(ctx,
		bson.M{models.ListIDKey: id},
		bson.M{"$set": bson.M{models.ListTitleKey: title}},
	)
	return list, errors.Wrapf(err, "updating title of list '%s'", id.Hex())
}

// DeleteList deletes a list together with its embedded items.
func (s *MongoStore) DeleteList(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.collection.DeleteOne(ctx, bson.M{models.ListIDKey: id})
	if err != nil {
		return 0, errors.Wrapf(err, "deleting list '%s'", id.Hex())
	}
	return res.DeletedCount, nil
}

// PushItem appends an item to a list.
func (s *MongoStore) PushItem(ctx context.Context, parentID primitive.ObjectID, item models.Item) (*models.List, error) {
	list, err := s.findOneAndUpdate(ctx,
		bson.M{models.ListIDKey: parentID},
		bson.M{"$push": bson.M{models.ListItemsKey: item}},
	)
	return list, errors.Wrapf(err, "pushing item onto list '%s'", parentID.Hex())
}

// UpdateItem sets the given fields of an embedded item in place.
func (s *MongoStore) UpdateItem(ctx context.Context, itemID primitive.ObjectID, update models.ItemUpdate) (*models.List, error) {
	query := bson.M{bsonutil.GetDottedKeyName(models.ListItemsKey, models.ItemIDKey): itemID}
	if update.IsEmpty() {
		list := &models.List{}
		err := s.collection.FindOne(ctx, query).Decode(list)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "finding list holding item '%s'", itemID.Hex())
		}
		return list, nil
	}

	set := bson.M{}
	for key, value := range update.Fields() {
		set[bsonutil.GetDottedKeyName(models.ListItemsKey, "$", key)] = value
	}
	list, err := s.findOneAndUpdate(ctx, query, bson.M{"$set": set})
	return list, errors.Wrapf(err, "updating item '%s'", itemID.Hex())
}

// PullItem removes an item from the list holding it.
func (s *MongoStore) PullItem(ctx context.Context, itemID primitive.ObjectID) (int64, error) {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{bsonutil.GetDottedKeyName(models.ListItemsKey, models.ItemIDKey): itemID},
		bson.M{"$pull": bson.M{models.ListItemsKey: bson.M{models.ItemIDKey: itemID}}},
		options.Update().SetUpsert(false),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "pulling item '%s'", itemID.Hex())
	}
	return res.ModifiedCount, nil
}

// Ping checks that the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx, readpref.Primary()), "pinging mongo")
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "disconnecting from mongo")
}

// findOneAndUpdate applies update to the first match and returns the
// document after the update, or nil if nothing matched.
func (s *MongoStore) findOneAndUpdate(ctx context.Context, query, update bson.M) (*models.List, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(false).
		SetReturnDocument(options.After)

	list := &models.List{}
	err := s.collection.FindOneAndUpdate(ctx, query, update, opts).Decode(list)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
