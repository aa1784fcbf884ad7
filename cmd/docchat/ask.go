package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"docchat/internal/credential"
	"docchat/internal/document"
	"docchat/internal/service"
	"docchat/internal/session"
)

type askCmd struct {
	File     []string `short:"f" required:"" help:"Document (or glob pattern) to upload. Repeatable."`
	Question string   `arg:"" help:"Question to ask about the documents."`
}

func (c *askCmd) Run(g *Globals) error {
	a, err := newApp(*g)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.ws.SetAPIKey(a.cfg.Provider.APIKey()); err != nil {
		return fmt.Errorf("%w (set %s)", credential.ErrMissingKey, a.cfg.Provider.APIKeyEnv)
	}
	paths, err := document.Expand(c.File)
	if err != nil {
		return err
	}
	docs, err := document.LoadAll(paths)
	if err != nil {
		return err
	}

	st := session.New()
	// remote resources are only deleted when delete_on_reset is set
	defer a.ws.ClearDocuments(context.Background(), st)

	report, err := a.ws.ProcessDocuments(ctx, st, docs)
	if err != nil {
		return err
	}
	printReport(report)
	if report.Attached == 0 {
		return errors.New("no documents were added to the knowledge base")
	}

	reply, err := a.ws.Ask(ctx, st, c.Question)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(reply.Message.Content)
	return nil
}

func printReport(report service.BatchReport) {
	for _, res := range report.Results {
		switch {
		case !res.OK():
			color.Red("Failed to add %s to knowledge base: %v", res.Name, res.Err)
		case res.IndexErr != nil:
			color.Yellow("Added %s to knowledge base, but indexing was not confirmed: %v", res.Name, res.IndexErr)
		default:
			color.Green("Added %s to knowledge base", res.Name)
		}
	}
	if report.Cleanup != nil {
		color.Yellow("Cleanup incomplete: %v", report.Cleanup)
	}
	color.Cyan("Successfully processed %d document(s)", report.Attached)
}
