package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
)

// Create walks through the card form and stores the card.
func (a *App) Create(ctx context.Context) error {
	c := a.cards.Draft()

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Vorname", &c.FirstName},
		{"Nachname", &c.LastName},
		{"Position", &c.Position},
		{"Abteilung (" + departmentCodes() + ")", &c.Department},
		{"Mitarbeiter-ID", &c.EmployeeID},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	var err error
	if c.IssueDate, err = GetDate(a.reader, "Ausstellungsdatum", c.IssueDate, a.out); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if c.ExpiryDate, err = GetDate(a.reader, "Ablaufdatum", c.ExpiryDate, a.out); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	if c.PhotoPath, err = getSimpleText(a.reader, "Foto (Pfad, optional)", a.out); err != nil {
		return err
	}

	if err := a.cards.Create(ctx, c); err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintf(a.out, "Ausweis für %s wurde erstellt (%s).\n", c.FullName(), c.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	all, err := a.cards.List(ctx)
	if err != nil {
		a.printError(err)
		return err
	}
	a.printCards(all)
	return nil
}

func (a *App) Search(ctx context.Context, q string) error {
	hits, err := a.cards.Search(ctx, q)
	if err != nil {
		a.printError(err)
		return err
	}
	a.printCards(hits)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	c, err := a.cards.Get(ctx, id)
	if err != nil {
		a.printError(err)
		return err
	}

	status := "gültig"
	if c.Expired(a.now()) {
		status = "abgelaufen"
	}
	rows := [][2]string{
		{"Name", c.FullName()},
		{"Position", c.Position},
		{"Abteilung", models.DepartmentLabel(c.Department)},
		{"Mitarbeiter-ID", c.EmployeeID},
		{"Ausgestellt", c.IssueDate.Format(DateLayout)},
		{"Gültig bis", c.ExpiryDate.Format(DateLayout) + " (" + status + ")"},
		{"Format", fmt.Sprintf("%dx%d px", models.CardWidthPx, models.CardHeightPx)},
	}
	if c.PhotoPath != "" {
		rows = append(rows, [2]string{"Foto", c.PhotoPath})
	}

	label := lipgloss.NewStyle().Bold(true).Width(16)
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(label.Render(r[0]) + r[1] + "\n")
	}
	fmt.Fprint(a.out, b.String())
	return nil
}

// Delete removes a card after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	if id == "" {
		v, err := getSimpleText(a.reader, "ID des Ausweises", a.out)
		if err != nil {
			return err
		}
		id = v
	}

	answer, err := getSimpleText(a.reader, "Ausweis wirklich löschen? (j/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "j") {
		fmt.Fprintln(a.out, "Abgebrochen.")
		return nil
	}

	if err := a.cards.Delete(ctx, id); err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintln(a.out, "Ausweis gelöscht.")
	return nil
}

func (a *App) printCards(cards []*models.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "Keine Ausweise gefunden.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Position", "Abteilung", "Mitarbeiter-ID", "Gültig bis")
	for _, c := range cards {
		t.Row(c.ID, c.FullName(), c.Position, models.DepartmentLabel(c.Department), c.EmployeeID, c.ExpiryDate.Format(DateLayout))
	}
	fmt.Fprintln(a.out, t.Render())
}

func (a *App) printError(err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, f := range verr.Fields {
			fmt.Fprintln(a.out, "- "+f.Message)
		}
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Ausweis nicht gefunden.")
	default:
		a.logger.Error(context.Background(), "command failed", "error", err)
		fmt.Fprintln(a.out, "Fehler:", err)
	}
}

func departmentCodes() string {
	codes := make([]string, 0, len(models.Departments))
	for k := range models.Departments {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
