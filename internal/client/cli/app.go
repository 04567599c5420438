package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/employcd/employcd/internal/bridge"
	"github.com/employcd/employcd/internal/client/client"
	"github.com/employcd/employcd/internal/client/config"
	"github.com/employcd/employcd/internal/client/services"
	"github.com/employcd/employcd/internal/filex"
	"github.com/employcd/employcd/internal/logging"
)

const (
	DatabaseFileName = "cards.db"
	LogFileName      = "client.log"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *services.SessionManager
	cards   *services.CardService
	company *services.CompanyService
	storage *bridge.Client
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
	closers []io.Closer
}

// NewApp builds the client. The session manager is created here once and
// shared by every command.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.New(logFile, c.LogLevel, logging.FormatText)

	storage, err := bridge.Dial(c.SocketPath, bridge.DefaultCallTimeout, logger.With("module", "bridge"))
	if err != nil {
		logFile.Close()
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, DatabaseFileName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		storage.Close()
		logFile.Close()
		return nil, err
	}

	backend := client.NewSupabaseClient(c.BackendURL, c.AnonKey, nil)
	session := services.NewSessionManager(backend, storage, logger.With("module", "session"),
		services.WithRequestTimeout(c.RequestTimeout))

	a := newApp(session, db, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.logger = logger
	a.storage = storage
	a.closers = []io.Closer{db, storage, logFile}
	return a, nil
}

func newApp(session *services.SessionManager, db *sql.DB, reader *bufio.Reader, out io.Writer) *App {
	repos := client.NewRepositories(db)
	return &App{
		logger:  logging.Discard(),
		session: session,
		cards:   services.NewCardService(repos.Cards, time.Now),
		company: services.NewCompanyService(db),
		reader:  reader,
		out:     out,
		now:     time.Now,
	}
}

// Run restores the session and blocks in the REPL until exit or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.storage != nil {
		if err := a.storage.Ping(ctx); err != nil {
			a.logger.Warn(ctx, "secure storage unreachable", "socket", a.config.SocketPath, "error", err)
			fmt.Fprintln(a.out, "Sicherer Speicher nicht erreichbar. Die Anmeldung wird nicht gespeichert.")
		}
	}

	go a.watchSession(ctx)

	if a.session.Bootstrap(ctx) == services.StateAuthenticated {
		fmt.Fprintf(a.out, "Willkommen zurück, %s!\n", a.session.User().Name)
	}
	fmt.Fprintln(a.out, "EmployCD (help für eine Befehlsübersicht)")

	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) entitled() bool {
	snap := a.session.Snapshot()
	return snap.IsAuthenticated() && snap.User.HasActiveSubscription
}

func (a *App) prompt() string {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		return "employcd> "
	}
	badge := "kein Abo"
	if snap.User.HasActiveSubscription {
		badge = "aktiv"
	}
	return fmt.Sprintf("employcd (%s, %s)> ", snap.User.Name, badge)
}

func (a *App) watchSession(ctx context.Context) {
	ch, stop := a.session.Watch()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			a.logger.Debug(ctx, "session changed", "state", snap.State, "loading", snap.Loading)
		}
	}
}
