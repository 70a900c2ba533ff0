package models

import (
	"encoding/json"

	"github.com/mongodb/anser/bsonutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List is a todo list document. Items are embedded in the document and keep
// their insertion order.
type List struct {
	ID    primitive.ObjectID `bson:"_id"`
	Title string             `bson:"title"`
	Items []Item             `bson:"items"`
}

// Item is a single todo entry embedded in exactly one List.
type Item struct {
	ID             primitive.ObjectID  `bson:"_id"`
	Text           string              `bson:"text"`
	DueDate        *primitive.DateTime `bson:"due_date"`
	FinishedStatus bool                `bson:"finished_status"`
}

var (
	ListIDKey    = bsonutil.MustHaveTag(List{}, "ID")
	ListTitleKey = bsonutil.MustHaveTag(List{}, "Title")
	ListItemsKey = bsonutil.MustHaveTag(List{}, "Items")

	ItemIDKey             = bsonutil.MustHaveTag(Item{}, "ID")
	ItemTextKey           = bsonutil.MustHaveTag(Item{}, "Text")
	ItemDueDateKey        = bsonutil.MustHaveTag(Item{}, "DueDate")
	ItemFinishedStatusKey = bsonutil.MustHaveTag(Item{}, "FinishedStatus")
)

// NewList returns a list with a fresh identifier and no items.
func NewList(title string) List {
	return List{
		ID:    primitive.NewObjectID(),
		Title: title,
		Items: []Item{},
	}
}

// NewItem returns an item with a fresh identifier.
func NewItem(text string, dueDate *primitive.DateTime, finished bool) Item {
	return Item{
		ID:             primitive.NewObjectID(),
		Text:           text,
		DueDate:        dueDate,
		FinishedStatus: finished,
	}
}

// MarshalJSON writes the list in extended JSON with the document's own field
// names. A list stored before its first item was pushed has no items field
// and is written with an empty array.
func (l List) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(struct {
		ID    objectIDJSON `json:"_id"`
		Title string       `json:"title"`
		Items []Item       `json:"items"`
	}{
		ID:    objectIDJSON{Hex: l.ID.Hex()},
		Title: l.Title,
		Items: items,
	})
}

func (i Item) MarshalJSON() ([]byte, error) {
	var due *dateJSON
	if i.DueDate != nil {
		due = &dateJSON{Millis: int64(*i.DueDate)}
	}
	return json.Marshal(struct {
		ID             objectIDJSON `json:"_id"`
		Text           string       `json:"text"`
		DueDate        *dateJSON    `json:"due_date"`
		FinishedStatus bool         `json:"finished_status"`
	}{
		ID:             objectIDJSON{Hex: i.ID.Hex()},
		Text:           i.Text,
		DueDate:        due,
		FinishedStatus: i.FinishedStatus,
	})
}
