package catalog

import "time"

// Language is a spoken language a film can be released in
type Language struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// Film is a catalog entry
type Film struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	ReleaseYear        *int       `json:"releaseYear,omitempty"`
	LanguageID         int64      `json:"languageId"`
	LanguageName       string     `json:"languageName,omitempty"`
	OriginalLanguageID *int64     `json:"originalLanguageId,omitempty"`
	RentalDuration     int        `json:"rentalDuration"`
	RentalRate         float64    `json:"rentalRate"`
	Length             *int       `json:"length,omitempty"`
	ReplacementCost    float64    `json:"replacementCost"`
	Rating             Rating     `json:"rating"`
	SpecialFeatures    FeatureSet `json:"specialFeatures"`
	LastUpdate         time.Time  `json:"lastUpdate"`
}

// Actor is a performer credited in the catalog
type Actor struct {
	ID         int64     `json:"actorId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	LastUpdate time.Time `json:"lastUpdate"`
}
