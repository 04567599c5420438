package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/employcd/employcd/internal/client/services"
	"github.com/employcd/employcd/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const limitedFeaturesHint = "Achtung: Sie haben kein aktives Abonnement. Einige Funktionen könnten eingeschränkt sein."

var (
	activeBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35"))
	inactiveBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedText     = lipgloss.NewStyle().Faint(true)
)

// Login prompts for credentials and signs in. Every failure is reported with
// the same message.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "E-Mail", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.session.Login(ctx, email, string(password)) {
		fmt.Fprintln(a.out, services.AuthFailedMessage)
		return nil
	}

	u := a.session.User()
	fmt.Fprintf(a.out, "Angemeldet als %s (%s).\n", u.Name, u.Email)
	if !u.HasActiveSubscription {
		fmt.Fprintln(a.out, limitedFeaturesHint)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Abgemeldet.")
	return nil
}

// Status prints the subscription badge from the cached entitlement flag,
// followed by the backend health.
func (a *App) Status(ctx context.Context) error {
	defer a.printBackendHealth(ctx)

	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		fmt.Fprintln(a.out, "Nicht angemeldet.")
		return nil
	}
	if snap.User.IsAdmin() {
		fmt.Fprintln(a.out, "Rolle: Administrator")
	}

	if snap.User.HasActiveSubscription {
		fmt.Fprintln(a.out, activeBadge.Render("Aktives Abonnement"))
		fmt.Fprintln(a.out, "Ihr Abonnement ist aktiv. Sie haben Zugriff auf alle Funktionen.")
	} else {
		fmt.Fprintln(a.out, inactiveBadge.Render("Kein aktives Abonnement"))
		fmt.Fprintln(a.out, "Ihr Abonnement ist inaktiv oder abgelaufen. Einige Funktionen könnten eingeschränkt sein.")
	}
	fmt.Fprintln(a.out, mutedText.Render("(refresh aktualisiert den Abonnementstatus)"))
	return nil
}

func (a *App) printBackendHealth(ctx context.Context) {
	if !a.session.BackendReachable(ctx) {
		fmt.Fprintln(a.out, inactiveBadge.Render("Server nicht erreichbar"))
	}
}

// Refresh re-checks the subscription and prints the new status.
func (a *App) Refresh(ctx context.Context) error {
	a.session.CheckSubscription(ctx)
	return a.Status(ctx)
}
