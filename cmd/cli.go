package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/meghashyamc/localdocs/api"
	"github.com/meghashyamc/localdocs/config"
	"github.com/meghashyamc/localdocs/db/docstore"
	"github.com/meghashyamc/localdocs/logger"
	"github.com/meghashyamc/localdocs/services/fetch"
	"github.com/meghashyamc/localdocs/services/search"
)

// Main represents the program.
type Main struct {
	// Serve starts the HTTP server. Replaced in tests.
	Serve func(ctx context.Context, cfg *config.Config, logger logger.Logger) error
}

func NewMain() *Main {
	return &Main{Serve: api.Run}
}

// Dependencies holds everything a command needs to run.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Logger logger.Logger
	Store  docstore.DB
	Serve  func(ctx context.Context, cfg *config.Config, logger logger.Logger) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Env string `help:"Config environment, selects config/config.<env>.yaml." env:"ENV"`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the MCP server (default)"`
	Search SearchCmd `cmd:"" help:"Search documents by keyword"`
	Fetch  FetchCmd  `cmd:"" help:"Fetch a document by id"`
}

type ServeCmd struct{}

type SearchCmd struct {
	Query string `arg:"" help:"Keyword to look for in titles and text"`
}

type FetchCmd struct {
	ID string `arg:"" name:"id" help:"Exact document id"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Serve:  m.Serve,
	}

	cli := &CLI{}
	helpShown := false
	parser, err := kong.New(cli,
		kong.Name("localdocs"),
		kong.Description("Local documentation server exposing search and fetch over MCP."),
		kong.Writers(stdout, stderr),
		// help flags print usage and then call Exit; stop there instead of running the command
		kong.Exit(func(int) { helpShown = true }),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	// kong keeps validating after printing help, so "search -h" still reports the missing query
	if helpShown {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	deps.Config = cfg
	deps.Logger = logger.New(cfg.GetLogLevel())
	deps.Store = docstore.New()

	return kongCtx.Run()
}

func (c *ServeCmd) Run(deps *Dependencies) error {
	return deps.Serve(deps.Ctx, deps.Config, deps.Logger)
}

func (c *SearchCmd) Run(deps *Dependencies) error {
	results := search.New(deps.Logger, deps.Store).Search(c.Query)
	return writeJSON(deps.Stdout, results)
}

func (c *FetchCmd) Run(deps *Dependencies) error {
	result := fetch.New(deps.Logger, deps.Store).Fetch(c.ID)
	return writeJSON(deps.Stdout, result)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
