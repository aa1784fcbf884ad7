package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docchat/internal/config"
	"docchat/internal/credential"
	"docchat/internal/document"
	"docchat/internal/domain"
	"docchat/internal/logger"
	"docchat/internal/provider/openai"
	"docchat/internal/service"
	"docchat/internal/session"
	"docchat/internal/tui"
)

type Globals struct {
	Config string `help:"Path to YAML config file (uses ./config.yaml or ~/.config/docchat/config.yaml if not provided)" type:"path"`
}

var cli struct {
	Globals

	Chat chatCmd `cmd:"" default:"withargs" help:"Chat with your documents in the terminal UI."`
	Ask  askCmd  `cmd:"" help:"Upload documents, ask one question and print the answer."`
}

// app holds the wired components shared by all commands.
type app struct {
	cfg *config.AppConfig
	log *logger.ZapLogger
	ws  *service.Workspace
}

func newApp(g Globals) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if g.Config == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(g.Config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewFileLogger(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	creds := credential.NewHolder(func(apiKey string) (domain.Provider, error) {
		c, err := openai.NewClient(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.Provider.BaseURL,
			Timeout: cfg.Provider.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	return &app{cfg: cfg, log: log, ws: service.NewWorkspace(creds, *cfg, log)}, nil
}

type chatCmd struct {
	Files []string `arg:"" optional:"" help:"Documents (or glob patterns) to preselect for processing."`
}

func (c *chatCmd) Run(g *Globals) error {
	a, err := newApp(*g)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	var pending []string
	if len(c.Files) > 0 {
		if pending, err = document.Expand(c.Files); err != nil {
			return err
		}
	}

	key := a.cfg.Provider.APIKey()
	if key != "" {
		_ = a.ws.SetAPIKey(key)
	}
	opts, err := chatOptions(a.cfg, key, pending, os.Getwd)
	if err != nil {
		a.log.Warn("main", "working directory unavailable, file picker starts in .", map[string]interface{}{"error": err.Error()})
	}

	a.log.Info("main", "starting chat", map[string]interface{}{"pending": len(pending), "model": a.cfg.Provider.Model})
	m := tui.New(context.Background(), a.ws, session.New(), opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// chatOptions builds the TUI options. The picker start directory is only set
// when the working directory can be read; the returned error is advisory.
func chatOptions(cfg *config.AppConfig, key string, pending []string, getwd func() (string, error)) (tui.Options, error) {
	opts := tui.Options{
		Pending:       pending,
		APIKey:        key,
		MarkdownStyle: cfg.UI.MarkdownStyle,
	}
	wd, err := getwd()
	if err != nil {
		return opts, err
	}
	opts.StartDir = wd
	return opts, nil
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("docchat"),
		kong.Description("Chat with your documents using OpenAI file search."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
