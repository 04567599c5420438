package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/employcd/employcd/internal/common"
	"github.com/google/uuid"
)

// Printed card size in pixels (85.6 x 54 mm at 720 dpi).
const (
	CardWidthPx  = 2415
	CardHeightPx = 1544
)

// Departments maps the department codes offered by the form to labels.
var Departments = map[string]string{
	"it":         "IT",
	"hr":         "Personalwesen",
	"finance":    "Finanzen",
	"marketing":  "Marketing",
	"operations": "Betrieb",
}

// DepartmentLabel returns the label for code, or code itself when unknown.
func DepartmentLabel(code string) string {
	if l, ok := Departments[code]; ok {
		return l
	}
	return code
}

// Card is one employee identification card.
type Card struct {
	ID         string
	FirstName  string
	LastName   string
	Position   string
	Department string
	EmployeeID string
	IssueDate  time.Time
	ExpiryDate time.Time
	PhotoPath  string
	CreatedAt  time.Time
}

// NewCard returns a card with a fresh ID, issued today and valid for a year.
func NewCard(now time.Time) *Card {
	today := truncateDay(now)
	return &Card{
		ID:         uuid.NewString(),
		IssueDate:  today,
		ExpiryDate: today.AddDate(1, 0, 0),
		CreatedAt:  now,
	}
}

func (c *Card) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Expired reports whether the card is no longer valid at now.
func (c *Card) Expired(now time.Time) bool {
	return c.ExpiryDate.Before(truncateDay(now))
}

// ExpiresWithin reports whether an unexpired card expires within d of now.
func (c *Card) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !c.Expired(now) && !c.ExpiryDate.After(now.Add(d))
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every failed rule. It matches common.ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%s: %s", common.ErrValidation, strings.Join(msgs, " "))
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Validate checks the form rules and returns a *ValidationError or nil.
func (c *Card) Validate() error {
	var fields []FieldError
	check := func(field, value string, min int, msg string) {
		if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
			fields = append(fields, FieldError{Field: field, Message: msg})
		}
	}

	check("firstName", c.FirstName, 2, "Vorname muss mindestens 2 Zeichen lang sein.")
	check("lastName", c.LastName, 2, "Nachname muss mindestens 2 Zeichen lang sein.")
	check("position", c.Position, 2, "Position muss angegeben werden.")
	check("department", c.Department, 2, "Abteilung muss angegeben werden.")
	check("employeeId", c.EmployeeID, 1, "Mitarbeiter-ID muss angegeben werden.")

	if c.IssueDate.IsZero() {
		fields = append(fields, FieldError{Field: "issueDate", Message: "Ausstellungsdatum muss angegeben werden."})
	}
	if c.ExpiryDate.IsZero() {
		fields = append(fields, FieldError{Field: "expiryDate", Message: "Ablaufdatum muss angegeben werden."})
	} else if c.ExpiryDate.Before(c.IssueDate) {
		fields = append(fields, FieldError{Field: "expiryDate", Message: "Ablaufdatum darf nicht vor dem Ausstellungsdatum liegen."})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
