package catalog

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Rating is the MPAA rating of a film. The zero value means no rating.
type Rating uint8

const (
	RatingNone Rating = iota
	RatingG
	RatingPG
	RatingPG13
	RatingR
	RatingNC17
)

// ratingLabels holds the canonical spelling of each rating, indexed by value
var ratingLabels = [...]string{
	RatingG:    "G",
	RatingPG:   "PG",
	RatingPG13: "PG-13",
	RatingR:    "R",
	RatingNC17: "NC-17",
}

// Ratings returns every rating in declaration order
func Ratings() []Rating {
	return []Rating{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17}
}

// Valid reports whether r is one of the five ratings
func (r Rating) Valid() bool {
	return r >= RatingG && r <= RatingNC17
}

// String returns the canonical label, or "" for RatingNone
func (r Rating) String() string {
	if r == RatingNone {
		return ""
	}
	if !r.Valid() {
		return fmt.Sprintf("Rating(%d)", uint8(r))
	}
	return ratingLabels[r]
}

// ParseRating looks up a rating by label, ignoring case
func ParseRating(s string) (Rating, error) {
	for _, r := range Ratings() {
		if strings.EqualFold(ratingLabels[r], s) {
			return r, nil
		}
	}
	return RatingNone, &UnknownCategoryError{Value: s}
}

// EncodeRating converts a rating to its stored form. RatingNone encodes as NULL.
func EncodeRating(r Rating) sql.NullString {
	if !r.Valid() {
		return sql.NullString{}
	}
	return sql.NullString{String: ratingLabels[r], Valid: true}
}

// DecodeRating converts a stored value back to a rating. NULL decodes to RatingNone.
func DecodeRating(s sql.NullString) (Rating, error) {
	if !s.Valid {
		return RatingNone, nil
	}
	return ParseRating(s.String)
}

// Value implements driver.Valuer
func (r Rating) Value() (driver.Value, error) {
	if r != RatingNone && !r.Valid() {
		return nil, fmt.Errorf("cannot store out-of-range rating %d", uint8(r))
	}
	return EncodeRating(r).Value()
}

// Scan implements sql.Scanner
func (r *Rating) Scan(src interface{}) error {
	var s sql.NullString
	if err := s.Scan(src); err != nil {
		return fmt.Errorf("failed to scan rating: %w", err)
	}
	decoded, err := DecodeRating(s)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// MarshalJSON encodes the canonical label, or null for RatingNone
func (r Rating) MarshalJSON() ([]byte, error) {
	enc := EncodeRating(r)
	if !enc.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(enc.String)
}

// UnmarshalJSON accepts a label in any case, or null
func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RatingNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("rating must be a string: %w", err)
	}
	parsed, err := ParseRating(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
