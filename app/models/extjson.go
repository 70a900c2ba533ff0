package models

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDJSON and dateJSON are the legacy extended JSON shapes clients of
// this API read. The driver's relaxed mode writes dates as ISO-8601 strings,
// so they are encoded here instead.
type objectIDJSON struct {
	Hex string `json:"$oid"`
}

type dateJSON struct {
	Millis int64 `json:"$date"`
}

// ParseObjectID parses a 24 character hex identifier.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Errorf("'%s' is not a valid ObjectId, it must be a 12-byte input or a 24-character hex string", id)
	}
	return oid, nil
}

// maxEpochMillis bounds the dates a stored millisecond count can hold.
const maxEpochMillis = float64(math.MaxInt64)

// EpochSeconds is a date sent by clients as seconds since the epoch. Values
// outside the range of a stored date are rejected while decoding.
type EpochSeconds float64

// UnmarshalJSON accepts any JSON number whose date fits in an int64 count of
// milliseconds.
func (s *EpochSeconds) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return errors.Wrap(err, "parsing due_date")
	}
	if ms := math.Round(seconds * 1000); math.IsInf(ms, 0) || ms >= maxEpochMillis || ms < -maxEpochMillis {
		return errors.Errorf("due_date %v is out of range", seconds)
	}
	*s = EpochSeconds(seconds)
	return nil
}

// Date returns the stored form of s.
func (s EpochSeconds) Date() primitive.DateTime {
	return DateFromEpochSeconds(float64(s))
}

// DateFromEpochSeconds converts seconds since the epoch, possibly fractional,
// to a stored date with millisecond precision.
func DateFromEpochSeconds(seconds float64) primitive.DateTime {
	return primitive.DateTime(int64(math.Round(seconds * 1000)))
}
