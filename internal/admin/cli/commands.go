package cli

import (
	"errors"
	"strconv"

	"github.com/employcd/employcd/internal/admin/gotrue"
	"github.com/employcd/employcd/internal/admin/services"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/spf13/cobra"
)

func (r *root) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <email>",
		Short: "Abonnement-Status eines Benutzers anzeigen",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, args []string) error {
			email := args[0]
			printInfo(cmd, "Benutzer mit E-Mail %s wird gesucht...", email)

			rep, err := r.svc.Status(cmd.Context(), email)
			if err != nil {
				return reportError(cmd, email, err)
			}
			printOK(cmd, "Benutzer gefunden (ID: %s)", rep.User.ID)
			printStatus(cmd, rep)
			return nil
		}),
	}
}

func printStatus(cmd *cobra.Command, rep *services.StatusReport) {
	sub := rep.Subscription
	if sub == nil {
		printWarn(cmd, "Benutzer hat kein Abonnement.")
		return
	}

	status := errStyle.Render("Inaktiv")
	if sub.Status == models.SubscriptionActive {
		status = okStyle.Render("Aktiv")
	}

	printLine(cmd, boldStyle.Render("Abonnement-Details:"))
	printLine(cmd, "Status: "+status)
	if sub.Plan != "" {
		printLine(cmd, "Plan: "+sub.Plan)
	}
	printLine(cmd, "Ablaufdatum: "+sub.ExpiresAt.Local().Format(dateLayout))

	switch {
	case rep.Active:
		printLine(cmd, "Verbleibende Tage: "+okStyle.Render(strconv.Itoa(rep.DaysLeft)))
	case rep.Lapsed:
		printWarn(cmd, "Abonnement ist abgelaufen.")
	}
}

func (r *root) extendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extend <email> <days>",
		Short: "Abonnement um X Tage verlängern",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(func(cmd *cobra.Command, args []string) error {
			email := args[0]
			days, ok := parseDays(cmd, args[1])
			if !ok {
				return ErrReported
			}
			printInfo(cmd, "Benutzer mit E-Mail %s wird gesucht...", email)

			sub, err := r.svc.Extend(cmd.Context(), email, days)
			if errors.Is(err, services.ErrNoSubscription) {
				printErr(cmd, "Fehler: Benutzer hat kein Abonnement zum Verlängern.")
				printLine(cmd, `Verwenden Sie stattdessen den "activate" Befehl, um ein neues Abonnement zu erstellen.`)
				return ErrReported
			}
			if err != nil {
				return reportError(cmd, email, err)
			}

			printOK(cmd, "Abonnement wurde erfolgreich um %d Tage verlängert.", days)
			printLine(cmd, "Neues Ablaufdatum: "+sub.ExpiresAt.Local().Format(dateLayout))
			return nil
		}),
	}
}

func (r *root) cancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <email>",
		Short: "Abonnement stornieren",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, args []string) error {
			email := args[0]
			printInfo(cmd, "Benutzer mit E-Mail %s wird gesucht...", email)

			_, err := r.svc.Cancel(cmd.Context(), email)
			if errors.Is(err, services.ErrNoSubscription) {
				printWarn(cmd, "Benutzer hat kein Abonnement zum Stornieren.")
				return nil
			}
			if err != nil {
				return reportError(cmd, email, err)
			}

			printOK(cmd, "Abonnement wurde erfolgreich storniert.")
			return nil
		}),
	}
}

func (r *root) activateCommand() *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "activate <email> [plan] <days>",
		Short: "Abonnement aktivieren für X Tage",
		Args:  cobra.RangeArgs(2, 3),
		RunE: r.run(func(cmd *cobra.Command, args []string) error {
			email, daysArg := args[0], args[len(args)-1]
			if len(args) == 3 {
				plan = args[1]
			}
			days, ok := parseDays(cmd, daysArg)
			if !ok {
				return ErrReported
			}
			printInfo(cmd, "Benutzer mit E-Mail %s wird gesucht...", email)

			res, err := r.svc.Activate(cmd.Context(), email, plan, days)
			if err != nil {
				return reportError(cmd, email, err)
			}

			if res.Created {
				printOK(cmd, "Neues Abonnement wurde erfolgreich erstellt.")
			} else {
				printOK(cmd, "Bestehendes Abonnement wurde erfolgreich aktiviert.")
			}
			printLine(cmd, "Ablaufdatum: "+res.Subscription.ExpiresAt.Local().Format(dateLayout))
			return nil
		}),
	}
	cmd.Flags().StringVar(&plan, "plan", "", "plan identifier, e.g. basic")
	return cmd
}

func (r *root) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Testbenutzer und Abonnements anlegen",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string) error {
			printLine(cmd, "=== Starte Datenbank-Seeding ===")

			results, err := r.svc.Seed(cmd.Context())
			for _, res := range results {
				printLine(cmd, "Erstelle Benutzer: "+res.Email+"...")
				if res.UserExisted {
					printLine(cmd, "  Benutzer "+res.Email+" existiert bereits, überspringe...")
				} else if res.Err == nil {
					printLine(cmd, "  Benutzer "+res.Email+" erfolgreich erstellt!")
				}

				switch {
				case res.Err != nil:
					printErr(cmd, "  Fehler für %s: %v", res.Email, res.Err)
				case res.Subscription == services.SubscriptionCreated:
					printLine(cmd, "  Abonnement für "+res.Email+" erstellt!")
				case res.Subscription == services.SubscriptionUpdated:
					printLine(cmd, "  Abonnement für "+res.Email+" aktualisiert!")
				}
			}
			if err != nil {
				printErr(cmd, "Fehler beim Seeding der Datenbank: %v", err)
				return ErrReported
			}

			printLine(cmd, "=== Datenbank-Seeding abgeschlossen ===")
			printLine(cmd, "Passwort aller Testbenutzer: "+services.TestPassword)
			return nil
		}),
	}
}

func (r *root) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Datenbankschema der Abonnements aktualisieren",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string) error {
			printInfo(cmd, "Migrationen werden ausgeführt...")
			if err := r.svc.Migrate(cmd.Context()); err != nil {
				printErr(cmd, "Fehler bei der Migration: %v", err)
				return ErrReported
			}
			printOK(cmd, "Datenbankschema ist aktuell.")
			return nil
		}),
	}
}

func parseDays(cmd *cobra.Command, s string) (int, bool) {
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 {
		printErr(cmd, "Fehler: Bitte geben Sie eine gültige Anzahl von Tagen an.")
		return 0, false
	}
	return days, true
}

// reportError prints the message for err and returns ErrReported.
func reportError(cmd *cobra.Command, email string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		printErr(cmd, "Fehler: Bitte geben Sie eine gültige E-Mail-Adresse an.")
	case errors.Is(err, services.ErrUserNotFound):
		printErr(cmd, "Benutzer mit E-Mail %q nicht gefunden.", email)
		printLine(cmd, "Bitte überprüfen Sie die E-Mail-Adresse oder erstellen Sie zuerst den Benutzer.")
	case errors.Is(err, gotrue.ErrUnauthorized), errors.Is(err, gotrue.ErrUnavailable):
		printErr(cmd, "Fehler beim Abrufen der Benutzerdaten: %v", err)
	case errors.Is(err, services.ErrInvalidDays):
		printErr(cmd, "Fehler: Bitte geben Sie eine gültige Anzahl von Tagen an.")
	default:
		printErr(cmd, "Unerwarteter Fehler: %v", err)
	}
	return ErrReported
}
