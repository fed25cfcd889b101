package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"airline_assistant/internal/adapters/observability"
	"airline_assistant/internal/domain"
)

const ReviewActionName = "action_review_summary"

// ReviewSubmissionAction validates the airline, rating and review slots,
// stores them as one record and reports the result to the user.
type ReviewSubmissionAction struct {
	repo     domain.ReviewRepository
	maxChars int
}

func NewReviewSubmissionAction(r domain.ReviewRepository, maxChars int) *ReviewSubmissionAction {
	if maxChars <= 0 {
		maxChars = 1000
	}
	return &ReviewSubmissionAction{repo: r, maxChars: maxChars}
}

func (a *ReviewSubmissionAction) Name() string { return ReviewActionName }

func (a *ReviewSubmissionAction) Run(ctx context.Context, d domain.Dispatcher, st domain.ConversationState) []domain.Event {
	l := log.With().Str("action", ReviewActionName).Str("sender", st.SenderID).Logger()
	l.Debug().
		Interface("airline", st.Slots.Airline).
		Interface("rating", st.Slots.Rating).
		Interface("review", st.Slots.Review).
		Msg("slots received")

	rec, err := ValidateReview(st)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			l.Info().Str("field", ve.Field).Msg("review rejected")
			d.SendMessage(ve.Message)
		}
		observability.ObserveAction(ReviewActionName, "rejected")
		return []domain.Event{}
	}

	if cut, ok := truncateRunes(rec.Review, a.maxChars); ok {
		rec.Review = cut
		l.Debug().Int("max_chars", a.maxChars).Msg("review truncated")
	}

	if err := a.repo.InsertReview(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrConnection) {
			l.Error().Err(err).Msg("database connection failed")
			observability.ObserveAction(ReviewActionName, "connection_failed")
			d.SendMessage(MsgConnectionFail)
			return []domain.Event{}
		}
		l.Error().Err(err).Msg("database insertion failed")
		observability.ObserveAction(ReviewActionName, "save_failed")
		d.SendMessage(MsgSaveFail)
		return []domain.Event{}
	}

	l.Debug().Msg("review stored")
	observability.ObserveAction(ReviewActionName, "saved")
	d.SendMessage(reviewSummary(rec.Airline, rec.Rating, rec.Review))
	return []domain.Event{}
}

// ValidateReview applies the slot checks in order and stops at the first
// failure. Slot values are kept as supplied; trimming only decides blankness.
func ValidateReview(st domain.ConversationState) (domain.ReviewRecord, error) {
	airline, ok := st.Airline()
	if !ok || strings.TrimSpace(airline) == "" {
		return domain.ReviewRecord{}, &domain.ValidationError{Field: "airline", Message: MsgAirlineEmpty}
	}

	rating, ok := st.Rating()
	if !ok || strings.TrimSpace(rating) == "" {
		return domain.ReviewRecord{}, &domain.ValidationError{Field: "rating", Message: MsgRatingEmpty}
	}
	if isHexLiteral(strings.TrimSpace(rating)) {
		return domain.ReviewRecord{}, &domain.ValidationError{Field: "rating", Message: MsgRatingFormat}
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rating), 64)
	if err != nil {
		var ne *strconv.NumError
		// out-of-range literals still parse to ±Inf and fail the range check
		if !errors.As(err, &ne) || !errors.Is(ne.Err, strconv.ErrRange) {
			return domain.ReviewRecord{}, &domain.ValidationError{Field: "rating", Message: MsgRatingFormat}
		}
	}
	if !(value >= 1 && value <= 5) {
		return domain.ReviewRecord{}, &domain.ValidationError{Field: "rating", Message: MsgRatingRange}
	}

	review, ok := st.Review()
	if !ok || strings.TrimSpace(review) == "" {
		return domain.ReviewRecord{}, &domain.ValidationError{Field: "review", Message: MsgReviewEmpty}
	}

	return domain.ReviewRecord{Airline: airline, Rating: rating, RatingValue: value, Review: review}, nil
}

// isHexLiteral reports a 0x/0X float literal, which ParseFloat accepts but
// is not a decimal rating.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
