package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTitleLength bounds the title accepted by input forms.
	MaxTitleLength = 100
	// MaxDescriptionLength bounds the description accepted by input forms.
	MaxDescriptionLength = 250
)

// Validate applies the rules enforced where activities are entered. The
// store never calls it, so older or imported records are still accepted.
func (a Activity) Validate(today Date) error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidActivity)
	}
	if utf8.RuneCountInString(a.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidActivity, MaxTitleLength)
	}
	if utf8.RuneCountInString(a.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidActivity, MaxDescriptionLength)
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidActivity)
	}
	if a.Date.Before(today) {
		return fmt.Errorf("%w: date cannot be before %s", ErrInvalidActivity, today)
	}
	return nil
}
