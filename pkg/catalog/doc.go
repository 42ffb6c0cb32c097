// Package catalog defines the film catalog domain types and the codecs that move
// enumerated attributes across the storage and wire boundaries.
//
// # Overview
//
// Two attributes are stored as strings but handled as typed values:
//
//   - Rating: one of G, PG, PG-13, R, NC-17. The zero value RatingNone means "no rating".
//   - FeatureSet: any subset of Trailers, Commentaries, Deleted Scenes, Behind the Scenes,
//     stored as a comma-joined list.
//
// # Codecs
//
// Encoding always produces the canonical spelling; decoding is case-insensitive:
//
//	col := catalog.EncodeRating(catalog.RatingPG13)        // {"PG-13", true}
//	r, err := catalog.DecodeRating(sql.NullString{String: "pg-13", Valid: true})
//
// Absent values are NULL in storage. An empty FeatureSet encodes as NULL, and NULL or
// blank columns decode to the empty set. Unknown labels fail with *UnknownCategoryError
// or *UnknownFeatureError, both of which match ErrUnknownValue:
//
//	if errors.Is(err, catalog.ErrUnknownValue) { ... }
//
// Both types implement sql.Scanner, driver.Valuer, json.Marshaler and json.Unmarshaler,
// so they can be scanned from and bound to SQL columns directly.
package catalog
