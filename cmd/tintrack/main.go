package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tintrack/internal/auth"
	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/logger"
	"github.com/julianstephens/tintrack/internal/server"
	"github.com/julianstephens/tintrack/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string." env:"TINTRACK_DB" default:"~/.config/tintrack/tintrack.db"`
	Debug   bool   `help:"Enable debug logging." env:"TINTRACK_DEBUG"`
	LogDir  string `help:"Directory for rotated log files." env:"TINTRACK_LOG_DIR"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server." default:"1"`
	Migrate MigrateCmd `cmd:"" help:"Initialize storage and run database migrations."`
}

// Context carries the collaborators kong hands to every command.
type Context struct {
	Store storage.Provider
}

type ServeCmd struct {
	Addr      string `help:"Listen address." env:"TINTRACK_ADDR" default:":3000"`
	JWTSecret string `help:"Secret used to sign access tokens." env:"TINTRACK_JWT_SECRET" required:""`
	TokenTTL  string `help:"Access token lifetime." env:"TINTRACK_TOKEN_TTL" default:"24h"`
}

func (c *ServeCmd) Run(app *Context) error {
	store := app.Store
	if err := store.Load(); err != nil {
		return err
	}
	defer store.Close()

	ttl, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token ttl %q: %w", c.TokenTTL, err)
	}

	tokens := auth.NewTokenManager(store, c.JWTSecret, ttl)
	if pruned, err := tokens.Prune(time.Now().UTC()); err != nil {
		logger.Warn("failed to prune expired tokens", "error", err)
	} else if pruned > 0 {
		logger.Info("pruned expired tokens", "count", pruned)
	}

	srv := server.New(store, tokens)
	logger.Info("starting server", "addr", c.Addr)
	return srv.Router().Run(c.Addr)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *Context) error {
	if err := app.Store.Init(); err != nil {
		return err
	}
	defer app.Store.Close()

	logger.Info("storage initialized")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and task tracking backend"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, LogDir: CLI.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if storage.IsPostgres(CLI.DB) && storage.HasEmbeddedCredentials(CLI.DB) {
		fmt.Fprintln(os.Stderr, "Error: PostgreSQL connection strings with embedded credentials are not allowed.")
		fmt.Fprintln(os.Stderr, "       Use environment variables or a .pgpass file instead.")
		os.Exit(1)
	}
	appCtx := &Context{Store: storage.NewStore(CLI.DB)}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
