package app

import "fmt"

// User-facing replies. Driver and upstream error text never goes into these.
const (
	MsgAirlineEmpty   = "The airline name cannot be empty. Please enter the airline that you would like to leave a review for again."
	MsgRatingEmpty    = "The rating cannot be empty. Please provide a valid rating between 1 and 5."
	MsgRatingFormat   = "Invalid rating format. Please enter a valid number between 1 and 5."
	MsgRatingRange    = "Rating must be between 1 and 5. Please enter a valid rating."
	MsgReviewEmpty    = "The review cannot be empty. Please provide your review."
	MsgConnectionFail = "Database connection failed. Please try again later."
	MsgSaveFail       = "There was an issue saving your review. Please try again."

	MsgNoAnswers         = "Sorry, I couldn't find the relevant answers."
	MsgAnswerUnavailable = "Unable to retrieve an answer at the moment."
	MsgLookupFailed      = "Sorry, there was an issue retrieving the airline information. Please try again later."

	SummarizeInstruction = "Summarize the following airline information in a user-friendly format:"
)

func reviewSummary(airline, rating, review string) string {
	return fmt.Sprintf("Here’s a summary:\n"+
		"- Airline: %s\n"+
		"- Rating: %s/5\n"+
		"- Review: %s\n"+
		"Your review has successfully been submitted!\n"+
		"Would you like to leave another review?\n", airline, rating, review)
}

// truncateRunes keeps the first n characters of s.
func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
