package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/employcd/employcd/internal/client/gate"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/client/services"
)

var errFeatureLocked = errors.New("feature requires an active subscription")

var (
	statsGate = gate.Options{
		RequiredTier: 1,
		LockTitle:    "Statistiken - Premium-Funktion",
		LockMessage:  "Die detaillierten Statistiken sind nur mit einem aktiven Abonnement verfügbar.",
	}
	companyGate = gate.Options{RequiredTier: 2}

	statValue = lipgloss.NewStyle().Bold(true)
)

// Stats re-checks the subscription and renders the card statistics through
// the gate.
func (a *App) Stats(ctx context.Context) error {
	unlocked := a.session.CheckSubscription(ctx)

	st, err := a.cards.Stats(ctx)
	if err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintln(a.out, gate.Render(gate.Decide(unlocked, statsGate, formatStats(st))))
	return nil
}

func formatStats(st services.CardStats) string {
	var b strings.Builder
	line := func(title string, value int, hint string) {
		fmt.Fprintf(&b, "%-24s %s  %s\n", title, statValue.Render(fmt.Sprint(value)), hint)
	}
	line("Ausweise gesamt", st.Total, "Erfasste Mitarbeiter in der Datenbank")
	line("Aktive Ausweise", st.Active, fmt.Sprintf("%d%% der Mitarbeiter", st.ActiveShare()))
	line("Neue Ausweise (Monat)", st.CreatedThisMonth, "Im aktuellen Monat erstellt")
	line("Ablaufende Ausweise", st.ExpiringSoon, "Laufen in den nächsten 30 Tagen ab")

	if len(st.Departments) > 0 {
		b.WriteString("\nAbteilungen\n")
		for _, d := range st.Departments {
			fmt.Fprintf(&b, "  %-22s %d\n", models.DepartmentLabel(d.Department), d.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Company handles "company [show|set|reset]". Changes are refused while the
// gate is locked.
func (a *App) Company(ctx context.Context, sub string) error {
	unlocked := a.entitled()

	switch sub {
	case "", "show":
		c, err := a.company.Get(ctx)
		if err != nil {
			a.printError(err)
			return err
		}
		fmt.Fprintln(a.out, gate.Render(gate.Decide(unlocked, companyGate, formatCompany(c))))
		return nil

	case "set", "reset":
		if !unlocked {
			opts := companyGate
			opts.ShowLockedPreview = gate.Preview(false)
			fmt.Fprintln(a.out, gate.Render(gate.Decide(false, opts, "")))
			return errFeatureLocked
		}
		if sub == "reset" {
			if err := a.company.Reset(ctx); err != nil {
				a.printError(err)
				return err
			}
			fmt.Fprintln(a.out, "Unternehmenseinstellungen zurückgesetzt.")
			return nil
		}
		return a.editCompany(ctx)

	default:
		fmt.Fprintln(a.out, "Verwendung: company [show|set|reset]")
		return nil
	}
}

func (a *App) editCompany(ctx context.Context) error {
	c, err := a.company.Get(ctx)
	if err != nil {
		a.printError(err)
		return err
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Unternehmensname", &c.Name},
		{"Primäre Unternehmensfarbe", &c.PrimaryColor},
		{"Sekundäre Unternehmensfarbe", &c.SecondaryColor},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.prompt, *f.dst), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	if err := a.company.Save(ctx, c); err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintln(a.out, "Einstellungen gespeichert.")
	return nil
}

func formatCompany(c models.Company) string {
	swatch := func(hex string) string {
		return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ")
	}
	name := c.Name
	if name == "" {
		name = "(nicht festgelegt)"
	}
	return fmt.Sprintf("Unternehmensname             %s\nPrimäre Unternehmensfarbe    %s %s\nSekundäre Unternehmensfarbe  %s %s",
		name, swatch(c.PrimaryColor), c.PrimaryColor, swatch(c.SecondaryColor), c.SecondaryColor)
}
