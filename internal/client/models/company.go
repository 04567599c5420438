package models

import (
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Company is the branding printed on cards.
type Company struct {
	Name           string
	PrimaryColor   string
	SecondaryColor string
}

func DefaultCompany() Company {
	return Company{PrimaryColor: "#3b82f6", SecondaryColor: "#10b981"}
}

func (c Company) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(c.Name) == "" {
		fields = append(fields, FieldError{Field: "companyName", Message: "Unternehmensname muss angegeben werden."})
	}
	if !hexColor.MatchString(c.PrimaryColor) {
		fields = append(fields, FieldError{Field: "primaryColor", Message: "Primäre Farbe muss im Format #RRGGBB angegeben werden."})
	}
	if !hexColor.MatchString(c.SecondaryColor) {
		fields = append(fields, FieldError{Field: "secondaryColor", Message: "Sekundäre Farbe muss im Format #RRGGBB angegeben werden."})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
