package models

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateListRequest is the body of POST /lists/.
type CreateListRequest struct {
	Title *string `json:"title" validate:"required"`
}

// UpdateListRequest is the body of PUT /lists/{id}.
type UpdateListRequest struct {
	Title *string `json:"title" validate:"required"`
}

// CreateItemRequest is the body of POST /items/.
type CreateItemRequest struct {
	ParentID       *string       `json:"parent_id" validate:"required"`
	Text           *string       `json:"text" validate:"required"`
	DueDate        *EpochSeconds `json:"due_date"`
	FinishedStatus *Status       `json:"finished_status"`
}

// UpdateItemRequest is the body of PUT /items/{id}. Every field is optional.
type UpdateItemRequest struct {
	Text           *string       `json:"text"`
	DueDate        *EpochSeconds `json:"due_date"`
	FinishedStatus *Status       `json:"finished_status"`
}

// Status is a finished flag. Clients send either a JSON boolean or the
// strings "true" and "false".
type Status bool

// UnmarshalJSON accepts a JSON boolean or a string strconv.ParseBool reads.
func (s *Status) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = Status(b)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return errors.Errorf("finished_status must be a boolean, got %s", data)
	}
	b, err := strconv.ParseBool(str)
	if err != nil {
		return errors.Wrapf(err, "parsing finished_status '%s'", str)
	}
	*s = Status(b)
	return nil
}

// Item builds the new item described by the request. A missing or zero due
// date is stored as null and a missing status as false.
func (r CreateItemRequest) Item() Item {
	var due *primitive.DateTime
	if r.DueDate != nil && *r.DueDate != 0 {
		d := r.DueDate.Date()
		due = &d
	}
	finished := false
	if r.FinishedStatus != nil {
		finished = bool(*r.FinishedStatus)
	}
	var text string
	if r.Text != nil {
		text = *r.Text
	}
	return NewItem(text, due, finished)
}

// ItemUpdate holds the item fields a PUT /items/{id} call writes. Nil fields
// are left unchanged.
type ItemUpdate struct {
	Text           *string
	DueDate        *primitive.DateTime
	FinishedStatus *bool
}

// ItemUpdate keeps only the truthy fields of the request: an empty text, a
// zero due date and a false status are dropped exactly like omitted ones, so
// this endpoint cannot reset a finished item or clear its text or due date.
func (r UpdateItemRequest) ItemUpdate() ItemUpdate {
	var u ItemUpdate
	if r.Text != nil && *r.Text != "" {
		text := *r.Text
		u.Text = &text
	}
	if r.DueDate != nil && *r.DueDate != 0 {
		d := r.DueDate.Date()
		u.DueDate = &d
	}
	if r.FinishedStatus != nil && bool(*r.FinishedStatus) {
		finished := true
		u.FinishedStatus = &finished
	}
	return u
}

// IsEmpty reports whether the update writes nothing.
func (u ItemUpdate) IsEmpty() bool {
	return u.Text == nil && u.DueDate == nil && u.FinishedStatus == nil
}

// Fields returns the values to write keyed by item field name.
func (u ItemUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Text != nil {
		fields[ItemTextKey] = *u.Text
	}
	if u.DueDate != nil {
		fields[ItemDueDateKey] = *u.DueDate
	}
	if u.FinishedStatus != nil {
		fields[ItemFinishedStatusKey] = *u.FinishedStatus
	}
	return fields
}
