package resume

import (
	"errors"
	"strings"
)

// ErrInvalidRecord is returned when the input cannot be read as a resume object at all.
var ErrInvalidRecord = errors.New("resume record must be a JSON object")

// Record is a normalized resume ready for layout
type Record struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	LinkedIn        string `json:"linkedin"`
	Address         string `json:"address"`
	CareerObjective string `json:"careerObjective"`

	Experience      []Experience     `json:"experience"`
	Projects        []Project        `json:"projects"`
	Education       []Education      `json:"education"`
	Skills          []string         `json:"skills"`
	Trainings       []Training       `json:"trainings"`
	Accomplishments []Accomplishment `json:"accomplishments"`
}

// Experience represents one work experience entry
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Project represents one project entry
type Project struct {
	Title        string `json:"title"`
	Role         string `json:"role"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

// Education represents one education entry
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	EndYear     string `json:"endYear"`
	Score       string `json:"score"`
}

// Training represents a training or certification
type Training struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
}

// Accomplishment represents an award or achievement
type Accomplishment struct {
	Title string `json:"title"`
}

// Diagnostic describes an input value dropped during normalization
type Diagnostic struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// FullName returns first and last name joined by a single space.
func (r *Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// ContactParts returns the non-empty contact fields in display order.
func (r *Record) ContactParts() []string {
	parts := make([]string, 0, 4)
	for _, v := range []string{r.Email, r.Phone, r.LinkedIn, r.Address} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return parts
}

// Headline returns the "{role}, {company}" line, or whichever part is present.
func (e Experience) Headline() string {
	return joinPair(e.Role, e.Company)
}

// DateRange returns " (start - end)" when either date is set.
func (e Experience) DateRange() string {
	if e.StartDate == "" && e.EndDate == "" {
		return ""
	}
	return " (" + e.StartDate + " - " + e.EndDate + ")"
}

// Headline returns the degree/institution line including the end year.
func (e Education) Headline() string {
	line := joinPair(e.Degree, e.Institution)
	if e.EndYear != "" {
		line += " (" + e.EndYear + ")"
	}
	return line
}

// Credentials merges trainings and accomplishments into display items.
// Trainings come first; entries without a title are skipped.
func (r *Record) Credentials() []string {
	var items []string
	for _, t := range r.Trainings {
		if t.Title == "" {
			continue
		}
		if t.Provider != "" {
			items = append(items, t.Title+" - "+t.Provider)
		} else {
			items = append(items, t.Title)
		}
	}
	for _, a := range r.Accomplishments {
		if a.Title != "" {
			items = append(items, a.Title)
		}
	}
	return items
}

func joinPair(first, second string) string {
	switch {
	case first != "" && second != "":
		return first + ", " + second
	case first != "":
		return first
	default:
		return second
	}
}
