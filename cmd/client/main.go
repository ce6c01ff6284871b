// Package main is the interactive terminal client for the contactbook
// service. It restores a persisted session at startup and then runs a
// command loop over the session and contact operations.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/client/api"
	"github.com/atarasov/contactbook/internal/client/contacts"
	"github.com/atarasov/contactbook/internal/client/credstore"
	"github.com/atarasov/contactbook/internal/client/session"
	"github.com/atarasov/contactbook/internal/client/ux"
	"github.com/atarasov/contactbook/internal/logger"

	nethttp "net/http"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// consoleNotifier prints notifications the way a toast would show them.
type consoleNotifier struct{}

func (consoleNotifier) Notify(level ux.Level, message string) {
	switch level {
	case ux.LevelError:
		fmt.Println("[error]", message)
	default:
		fmt.Println("[ok]", message)
	}
}

// consoleConfirmer asks a yes/no question on stdin.
type consoleConfirmer struct {
	scanner *bufio.Scanner
}

func (c *consoleConfirmer) Confirm(question string) bool {
	fmt.Print(question + " [y/N]: ")
	if !c.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	return answer == "y" || answer == "yes"
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "contactbook", "credentials.json")
}

func main() {
	serverURL := flag.String("url", "http://localhost:5000", "base URL of the contactbook server")
	credsPath := flag.String("creds", defaultCredentialsPath(), "path to the persisted credential file")
	showVersion := flag.Bool("version", false, "print build metadata and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
		fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	if err := log.Init("Error"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()

	scanner := bufio.NewScanner(os.Stdin)
	notify := consoleNotifier{}
	confirm := &consoleConfirmer{scanner: scanner}

	httpClient := &nethttp.Client{Timeout: 30 * time.Second}
	apiClient := api.New(httpClient, *serverURL, log.Log)
	creds := credstore.NewFileStore(*credsPath)

	sessionMgr := session.New(apiClient, creds, notify, log.Log)
	repo := contacts.NewRepository(apiClient, sessionMgr, notify, confirm, log.Log)
	sessionMgr.OnLogout(repo.DiscardAll)

	ctx := context.Background()

	if err := sessionMgr.Restore(ctx); err != nil {
		if !errors.Is(err, api.ErrNoSession) {
			log.Log.Debug("stored session not restored", zap.Error(err))
		}
		fmt.Println("Please login to your account (or type 'help').")
	}

	runLoop(ctx, scanner, sessionMgr, repo)
}

func runLoop(ctx context.Context, scanner *bufio.Scanner, sessionMgr *session.Manager, repo *contacts.Repository) {
	fmt.Println("Type 'help' for the list of commands.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "help":
			printHelp()
		case "register":
			name := promptLine(scanner, "Name: ")
			email := promptLine(scanner, "Email: ")
			password := promptPassword(scanner, "Password: ")
			_ = sessionMgr.Register(ctx, name, email, password)
		case "login":
			email := promptLine(scanner, "Email: ")
			password := promptPassword(scanner, "Password: ")
			if err := sessionMgr.Login(ctx, email, password); err == nil {
				_ = repo.List(ctx)
				printContacts(repo.Contacts())
			}
		case "logout":
			sessionMgr.Logout()
		case "whoami":
			if user, ok := sessionMgr.User(); ok {
				fmt.Printf("%s <%s>\n", user.Name, user.Email)
			} else {
				fmt.Println("Not logged in.")
			}
		case "list":
			if err := repo.List(ctx); err == nil {
				printContacts(repo.Contacts())
			}
		case "search":
			repo.Search(arg)
			printContacts(repo.Contacts())
		case "add":
			fields := promptContactFields(scanner)
			if err := repo.Create(ctx, fields); err == nil {
				// The create response is not trusted to echo the stored
				// record; re-fetch instead.
				if err := repo.List(ctx); err == nil {
					printContacts(repo.Contacts())
				}
			}
		case "edit":
			if arg == "" {
				fmt.Println("Usage: edit <id>")
				continue
			}
			contact, err := repo.Get(ctx, arg)
			if err != nil {
				continue
			}
			fields := promptContactEdits(scanner, *contact)
			_ = repo.Update(ctx, arg, fields)
		case "delete":
			if arg == "" {
				fmt.Println("Usage: delete <id>")
				continue
			}
			_ = repo.Delete(ctx, arg)
		case "exit", "quit":
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  register        create a new account
  login           log in to your account
  logout          log out and clear local state
  whoami          show the logged-in user
  list            fetch and show your contacts
  search <query>  narrow the shown contacts by name or email
  add             create a new contact
  edit <id>       update a contact
  delete <id>     delete a contact (asks for confirmation)
  exit            quit`)
}
