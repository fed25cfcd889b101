package domain

// ReviewRecord is one airline review as it is written to the store.
// Rating keeps the text the user supplied; RatingValue is the parsed
// number used for validation only.
type ReviewRecord struct {
	Airline     string
	Rating      string
	RatingValue float64
	Review      string
}
