package export

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"example.com/agenda/internal/domain"
)

// Labels holds the fixed strings written into exported documents.
type Labels struct {
	Heading       string
	Title         string
	Date          string
	Category      string
	Description   string
	NoDescription string
	NoDate        string
	Generated     string
	Fallback      string

	days   [7]string
	months [12]string
	// longDate receives weekday, day, month name and year.
	longDate string
}

// LongDate renders d as a full weekday/day/month/year string.
func (l Labels) LongDate(d domain.Date) string {
	if d.IsZero() {
		return l.NoDate
	}
	weekday := d.Time().Weekday()
	return fmt.Sprintf(l.longDate, l.days[weekday], d.Day(), l.months[d.Month()-1], d.Year())
}

// Timestamp renders the short generation stamp used in document footers.
func (l Labels) Timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

var english = Labels{
	Heading:       "Activity",
	Title:         "Title",
	Date:          "Date",
	Category:      "Category",
	Description:   "Description",
	NoDescription: "(No description)",
	NoDate:        "(No date)",
	Generated:     "Generated",
	Fallback:      "Activity",
	days:          [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	longDate: "%s, %02d %s %d",
}

var spanish = Labels{
	Heading:       "Actividad",
	Title:         "Título",
	Date:          "Fecha",
	Category:      "Categoría",
	Description:   "Descripción",
	NoDescription: "(Sin descripción)",
	NoDate:        "(Sin fecha)",
	Generated:     "Generado",
	Fallback:      "Actividad",
	days:          [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	months: [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	longDate: "%s, %02d de %s de %d",
}

var (
	supported = []language.Tag{language.English, language.Spanish}
	matcher   = language.NewMatcher(supported)
)

// LabelsFor picks the closest supported locale for a BCP 47 tag such as
// "es-AR". Unknown or empty tags get English.
func LabelsFor(tag string) Labels {
	if tag == "" {
		return english
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return english
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return english
	}
	if supported[index] == language.Spanish {
		return spanish
	}
	return english
}
