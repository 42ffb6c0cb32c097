package catalog

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// SpecialFeature is one of the extras a film release can carry
type SpecialFeature uint8

const (
	FeatureTrailers SpecialFeature = iota
	FeatureCommentaries
	FeatureDeletedScenes
	FeatureBehindTheScenes

	featureCount
)

var featureLabels = [featureCount]string{
	FeatureTrailers:        "Trailers",
	FeatureCommentaries:    "Commentaries",
	FeatureDeletedScenes:   "Deleted Scenes",
	FeatureBehindTheScenes: "Behind the Scenes",
}

// featureSeparator joins labels in the stored column
const featureSeparator = ","

// String returns the canonical label
func (f SpecialFeature) String() string {
	if f >= featureCount {
		return fmt.Sprintf("SpecialFeature(%d)", uint8(f))
	}
	return featureLabels[f]
}

// ParseSpecialFeature looks up a feature by label, ignoring case
func ParseSpecialFeature(s string) (SpecialFeature, error) {
	for f := SpecialFeature(0); f < featureCount; f++ {
		if strings.EqualFold(featureLabels[f], s) {
			return f, nil
		}
	}
	return 0, &UnknownFeatureError{Value: s}
}

// FeatureSet is an unordered set of special features stored as a bitmask
type FeatureSet uint8

// NewFeatureSet builds a set from the given features; duplicates collapse
func NewFeatureSet(features ...SpecialFeature) FeatureSet {
	var s FeatureSet
	for _, f := range features {
		s = s.Add(f)
	}
	return s
}

// Add returns s with f included. Unknown features are ignored.
func (s FeatureSet) Add(f SpecialFeature) FeatureSet {
	if f >= featureCount {
		return s
	}
	return s | 1<<f
}

// Has reports whether f is in the set
func (s FeatureSet) Has(f SpecialFeature) bool {
	return f < featureCount && s&(1<<f) != 0
}

// Len returns the number of features in the set
func (s FeatureSet) Len() int {
	n := 0
	for f := SpecialFeature(0); f < featureCount; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set has no features
func (s FeatureSet) IsEmpty() bool {
	return s.Len() == 0
}

// Features lists the members in declaration order
func (s FeatureSet) Features() []SpecialFeature {
	out := make([]SpecialFeature, 0, featureCount)
	for f := SpecialFeature(0); f < featureCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Labels lists the canonical labels of the members in declaration order
func (s FeatureSet) Labels() []string {
	features := s.Features()
	labels := make([]string, len(features))
	for i, f := range features {
		labels[i] = f.String()
	}
	return labels
}

func (s FeatureSet) String() string {
	return strings.Join(s.Labels(), featureSeparator)
}

// EncodeFeatureSet converts a set to its stored form. The empty set encodes as NULL
// so that "no features" is never confused with a malformed column.
func EncodeFeatureSet(s FeatureSet) sql.NullString {
	if s.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: s.String(), Valid: true}
}

// DecodeFeatureSet parses a stored column. NULL and blank strings decode to the empty set.
// A single unknown token fails the whole decode.
func DecodeFeatureSet(s sql.NullString) (FeatureSet, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return 0, nil
	}

	tokens := strings.Split(s.String, featureSeparator)
	// Trailing empty tokens are dropped; empty tokens elsewhere are errors
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}

	var set FeatureSet
	for _, token := range tokens {
		f, err := ParseSpecialFeature(token)
		if err != nil {
			return 0, err
		}
		set = set.Add(f)
	}
	return set, nil
}

// Value implements driver.Valuer
func (s FeatureSet) Value() (driver.Value, error) {
	return EncodeFeatureSet(s).Value()
}

// Scan implements sql.Scanner
func (s *FeatureSet) Scan(src interface{}) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return fmt.Errorf("failed to scan special features: %w", err)
	}
	decoded, err := DecodeFeatureSet(ns)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// MarshalJSON encodes the set as an array of labels
func (s FeatureSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

// UnmarshalJSON accepts an array of labels in any case, or null
func (s *FeatureSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return fmt.Errorf("special features must be an array of strings: %w", err)
	}

	var set FeatureSet
	for _, label := range labels {
		f, err := ParseSpecialFeature(label)
		if err != nil {
			return err
		}
		set = set.Add(f)
	}
	*s = set
	return nil
}
