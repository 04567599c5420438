// Package cli implements the employcd-admin command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/employcd/employcd/internal/admin/config"
	"github.com/employcd/employcd/internal/admin/services"
	"github.com/employcd/employcd/internal/client/models"
	"github.com/spf13/cobra"
)

// ErrReported is returned after a command already printed its failure.
var ErrReported = errors.New("command failed")

// Service is the subscription administration backend. Implementations that
// also implement io.Closer are closed after the command finishes.
type Service interface {
	Status(ctx context.Context, email string) (*services.StatusReport, error)
	Extend(ctx context.Context, email string, days int) (*models.Subscription, error)
	Cancel(ctx context.Context, email string) (*models.Subscription, error)
	Activate(ctx context.Context, email, plan string, days int) (*services.ActivateResult, error)
	Seed(ctx context.Context) ([]services.SeedResult, error)
	Migrate(ctx context.Context) error
}

type ServiceFactory func(ctx context.Context, cfg *config.Config) (Service, error)

type root struct {
	factory ServiceFactory
	envFile string
	svc     Service
}

func NewRootCommand(factory ServiceFactory) *cobra.Command {
	r := &root{factory: factory}

	cmd := &cobra.Command{
		Use:   "employcd-admin",
		Short: "Manage EmployCD subscriptions",
		Long: `Administrative tool for EmployCD subscriptions.

It talks to the auth server with the service role key and writes the
subscriptions table directly. Never distribute the service key with the
desktop application.

Examples:
  employcd-admin status user@example.com
  employcd-admin extend user@example.com 30
  employcd-admin activate user@example.com 14 --plan basic
  employcd-admin cancel user@example.com
  employcd-admin seed
`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: r.open,
	}
	cmd.PersistentFlags().StringVar(&r.envFile, "env-file", config.DefaultEnvFile, "environment file to load")

	cmd.AddCommand(
		r.statusCommand(),
		r.extendCommand(),
		r.cancelCommand(),
		r.activateCommand(),
		r.seedCommand(),
		r.migrateCommand(),
	)
	return cmd
}

func (r *root) open(cmd *cobra.Command, _ []string) error {
	if !needsService(cmd) {
		return nil
	}
	cfg, err := config.LoadConfig(r.envFile)
	if err != nil {
		printErr(cmd, "Fehler: %v", err)
		return ErrReported
	}
	if err := cfg.Validate(); err != nil {
		printErr(cmd, "Fehler: Umgebungsvariablen fehlen.")
		fmt.Fprintf(cmd.ErrOrStderr(), "Bitte stellen Sie sicher, dass die folgenden Umgebungsvariablen in %s gesetzt sind:\n", r.envFile)
		fmt.Fprintln(cmd.ErrOrStderr(), "- NEXT_PUBLIC_SUPABASE_URL")
		fmt.Fprintln(cmd.ErrOrStderr(), "- SUPABASE_SERVICE_KEY (Service-Rolle Key)")
		fmt.Fprintln(cmd.ErrOrStderr(), "- DATABASE_URL")
		return ErrReported
	}

	svc, err := r.factory(cmd.Context(), cfg)
	if err != nil {
		printErr(cmd, "Fehler beim Verbinden: %v", err)
		return ErrReported
	}
	r.svc = svc
	return nil
}

// run closes the service once fn returns, whether or not it failed.
func (r *root) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if c, ok := r.svc.(io.Closer); ok {
				_ = c.Close()
			}
			r.svc = nil
		}()
		return fn(cmd, args)
	}
}

func needsService(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "help" || c.Name() == "completion" {
			return false
		}
	}
	return cmd.HasParent()
}
