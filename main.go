package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"auctioneer/cmd"
	"auctioneer/internal/api"
	"auctioneer/internal/db"
	"auctioneer/internal/logging"
	"auctioneer/internal/model"
	"auctioneer/internal/store"
	"auctioneer/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	app := cmd.NewApp(version, cmd.Actions{
		Run:    run,
		Logout: logout,
		WhoAmI: whoami,
	})
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built from the loaded config.
type env struct {
	log     *logrus.Logger
	session *store.Session
	client  *api.Client
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

func setup(cfg *cmd.Config) (*env, error) {
	logger, logFile, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{log: logger, closers: []io.Closer{logFile}}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	e.closers = append(e.closers, database)

	opts := cfg.ClientOptions()
	opts.Logger = logger
	e.client = api.NewClient(opts)
	e.session = store.NewSession(e.client, db.NewKV(database), cfg.StoragePrefix, logger)

	logger.WithFields(logrus.Fields{
		"version":   version,
		"api_url":   e.client.BaseURL(),
		"logged_in": e.session.IsLoggedIn(),
	}).Info("Starting auctioneer")
	return e, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func run(cfg *cmd.Config) error {
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := ui.New(ctx, ui.Deps{
		Client:   e.client,
		Session:  e.session,
		Log:      e.log,
		PageSize: cfg.PageSize,
		Photos:   cfg.Photos,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func logout(cfg *cmd.Config) error {
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.session.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}
	ctx, cancel := signalContext()
	defer cancel()
	if err := e.session.LogOut(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func whoami(cfg *cmd.Config) error {
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	current, ok := e.session.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("User #%d at %s\n", current.UserID, e.client.BaseURL())

	ctx, cancel := signalContext()
	defer cancel()
	user := e.session.User()
	if err := user.Details.Fetch(ctx); err != nil {
		if model.KindOf(err) == model.KindSessionExpired {
			fmt.Println("The stored session has expired.")
			return nil
		}
		return err
	}
	if d := user.Details.Details(); d != nil {
		fmt.Printf("%s %s", d.FirstName, d.LastName)
		if d.Email != nil {
			fmt.Printf(" <%s>", *d.Email)
		}
		fmt.Println()
	}
	return nil
}
