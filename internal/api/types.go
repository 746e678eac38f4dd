package api

import (
	"fmt"
	"time"

	"example.com/agenda/internal/domain"
)

// ActivityRequest is the payload for creating or replacing an activity.
type ActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

func (r ActivityRequest) toActivity() (domain.Activity, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidActivity)
	}
	return domain.Activity{
		Title:       r.Title,
		Description: r.Description,
		Date:        date,
		Category:    r.Category,
	}, nil
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID  string     `json:"activity_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items []ActivityView `json:"items"`
}

// ExportResponse reports where an exported document was written.
type ExportResponse struct {
	Path string `json:"path"`
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:  a.ID,
		Title:       a.Title,
		Description: a.Description,
		Date:        a.Date.String(),
		Category:    a.Category,
		Completed:   a.Completed,
		CompletedAt: a.CompletedAt,
	}
}
