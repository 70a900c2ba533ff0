package services

import (
	"context"

	"todo-lists/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists todo lists. Each method is a single atomic operation against
// the backing store. Lookups that match nothing return a nil list and a nil
// error.
type Store interface {
	// FindLists returns up to limit lists in natural order after skipping
	// offset of them. A limit of zero means no limit.
	FindLists(ctx context.Context, offset, limit int64) ([]models.List, error)
	// CreateList inserts a list with no items and returns it as stored.
	CreateList(ctx context.Context, title string) (*models.List, error)
	FindList(ctx context.Context, id primitive.ObjectID) (*models.List, error)
	// UpdateListTitle sets the title and returns the list after the update.
	UpdateListTitle(ctx context.Context, id primitive.ObjectID, title string) (*models.List, error)
	// DeleteList returns the number of lists removed.
	DeleteList(ctx context.Context, id primitive.ObjectID) (int64, error)
	// PushItem appends item to an existing list and returns the list after
	// the update. A missing parent is not created.
	PushItem(ctx context.Context, parentID primitive.ObjectID, item models.Item) (*models.List, error)
	// UpdateItem writes the update onto the item wherever it is embedded and
	// returns its parent list.
	UpdateItem(ctx context.Context, itemID primitive.ObjectID, update models.ItemUpdate) (*models.List, error)
	// PullItem removes the item from the list holding it and returns the
	// number of lists modified.
	PullItem(ctx context.Context, itemID primitive.ObjectID) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
