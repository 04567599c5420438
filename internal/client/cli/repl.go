package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Refresh(ctx context.Context) error
	Create(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, q string) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Company(ctx context.Context, sub string) error
}

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  - help, login, status, exit | quit
//
//	Logged in:
//	  - status, refresh, logout
//	  - create, (l)ist, search <text>, show <id>, delete [id]
//	  - stats, company [show|set|reset]
//	  - help, exit | quit
//
// Errors from command handlers are ignored here; handlers report to the user
// themselves.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(promptFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := strings.Join(args, " ")

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Verfügbare Befehle: status, refresh, create, (l)ist, search <text>, show <id>, delete [id], stats, company [show|set|reset], logout, exit")
			} else {
				printlnFn("Verfügbare Befehle: login, status, exit")
			}
			continue
		case "exit", "quit":
			printlnFn("Auf Wiedersehen!")
			return
		case "login":
			_ = a.Login(ctx)
			continue
		case "status":
			_ = a.Status(ctx)
			continue
		}

		if !a.isLoggedIn() {
			if isKnownCommand(cmd) {
				printlnFn("Bitte melden Sie sich zuerst an (login).")
			} else {
				printlnFn("Unbekannter Befehl:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "create":
			_ = a.Create(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "search":
			_ = a.Search(ctx, arg)
		case "show":
			if arg == "" {
				printlnFn("Verwendung: show <id>")
				continue
			}
			_ = a.Show(ctx, arg)
		case "delete":
			_ = a.Delete(ctx, arg)
		case "stats":
			_ = a.Stats(ctx)
		case "company":
			_ = a.Company(ctx, arg)
		default:
			printlnFn("Unbekannter Befehl:", cmd)
		}
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "logout", "refresh", "create", "l", "list", "search", "show", "delete", "stats", "company":
		return true
	}
	return false
}
