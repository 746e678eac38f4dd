package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// legacyNamespace seeds IDs for records written before IDs existed.
var legacyNamespace = uuid.MustParse("5b0f3f64-8f1e-4a59-9d3c-6a61c1f1a0d2")

// Activity is one agenda entry as persisted in the collection file.
type Activity struct {
	ID          string     `json:"Id,omitempty"`
	Title       string     `json:"Titulo"`
	Description string     `json:"Descripcion"`
	Date        Date       `json:"Fecha"`
	Category    string     `json:"Categoria"`
	Completed   bool       `json:"Completada"`
	CompletedAt *time.Time `json:"FechaCompletada"`
}

// SameRecord reports whether a and b identify the same stored record.
// IDs win when both sides carry one; legacy records fall back to the
// title/date/category/description tuple.
func (a Activity) SameRecord(b Activity) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.Title == b.Title &&
		a.Date.Equal(b.Date) &&
		a.Category == b.Category &&
		a.Description == b.Description
}

// sortKey is the instant used to order completed activities. Records
// without a completion time fall back to local midnight of their date.
func (a Activity) sortKey() time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, time.Local)
}

func indexOf(list []Activity, probe Activity) int {
	for i := range list {
		if list[i].SameRecord(probe) {
			return i
		}
	}
	return -1
}

func tupleKey(a Activity) string {
	return strings.Join([]string{a.Title, a.Date.String(), a.Category, a.Description}, "\x00")
}

// legacyID derives a stable ID from the identity tuple and the number of
// earlier records in the collection sharing that tuple, so value-identical
// records stored without IDs stay distinct across loads.
func legacyID(a Activity, occurrence int) string {
	key := tupleKey(a) + "\x00" + strconv.Itoa(occurrence)
	return uuid.NewSHA1(legacyNamespace, []byte(key)).String()
}

// assignLegacyIDs gives every record without an ID a deterministic one.
func assignLegacyIDs(all []Activity) {
	seen := make(map[string]int)
	for i := range all {
		if all[i].ID != "" {
			continue
		}
		key := tupleKey(all[i])
		all[i].ID = legacyID(all[i], seen[key])
		seen[key]++
	}
}
