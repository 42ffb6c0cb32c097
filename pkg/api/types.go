package api

import (
	"github.com/platinummonkey/reel/pkg/catalog"
)

// FilmRequest is the body of POST and PUT /films
type FilmRequest struct {
	Title              string             `json:"title" validate:"notblank,max=255"`
	Description        string             `json:"description"`
	ReleaseYear        *int               `json:"releaseYear" validate:"omitempty,min=1888"`
	LanguageID         *int64             `json:"languageId" validate:"required"`
	OriginalLanguageID *int64             `json:"originalLanguageId"`
	RentalDuration     *int               `json:"rentalDuration" validate:"required,min=1"`
	RentalRate         *float64           `json:"rentalRate" validate:"required,min=0,digits=2.2"`
	Length             *int               `json:"length" validate:"omitempty,min=1"`
	ReplacementCost    *float64           `json:"replacementCost" validate:"required,min=0,digits=3.2"`
	Rating             catalog.Rating     `json:"rating"`
	SpecialFeatures    catalog.FeatureSet `json:"specialFeatures"`
}

// apply copies the request onto film. Only call after validation.
func (r *FilmRequest) apply(film *catalog.Film) {
	film.Title = r.Title
	film.Description = r.Description
	film.ReleaseYear = r.ReleaseYear
	film.LanguageID = *r.LanguageID
	film.OriginalLanguageID = r.OriginalLanguageID
	film.RentalDuration = *r.RentalDuration
	film.RentalRate = *r.RentalRate
	film.Length = r.Length
	film.ReplacementCost = *r.ReplacementCost
	film.Rating = r.Rating
	film.SpecialFeatures = r.SpecialFeatures
}

// ActorRequest is the body of POST and PUT /actors
type ActorRequest struct {
	FirstName string `json:"firstName" validate:"notblank,max=45"`
	LastName  string `json:"lastName" validate:"notblank,max=45"`
}
