package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageglue/internal/errors"
	"github.com/vango-dev/pageglue/pkg/confirm"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/page"
)

func renderCmd(a *app) *cobra.Command {
	var (
		alerts   []string
		severity string
		markup   bool
		clicks   []string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.html>",
		Short: "Apply page wiring to an HTML file",
		Long: `Load an HTML page, wire its alerts and confirm links, replay
clicks and alerts against it, and print the resulting body.

Confirmations are asked on the terminal unless --yes is given.
Use - to read the page from stdin.

Examples:
  pageglue render page.html --alert "Saved"
  pageglue render page.html --click delete-3 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sev, err := notify.ParseSeverity(severity)
			if err != nil {
				return errors.New("P120").WithDetail("--severity: " + err.Error())
			}

			doc, err := loadDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			prompter := confirm.Always(true)
			if !yes {
				prompter = terminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			// Timers never fire before the command exits, so alerts stay.
			n := notify.New(doc, notify.Config{
				Timeout:  -1,
				HolderID: a.cfg.Notify.ContainerID,
				Logger:   a.logger,
			})
			loc := &page.Location{}
			p := page.New(n, confirm.NewGate(prompter, confirm.WithLogger(a.logger)), loc, page.WithLogger(a.logger))
			p.Ready()

			opts := []notify.Option{notify.WithSeverity(sev)}
			if markup {
				opts = append(opts, notify.WithMarkup())
			}
			for _, msg := range alerts {
				if _, err := n.Notify(msg, opts...); err != nil {
					return err
				}
			}
			for _, id := range clicks {
				if err := p.ClickID(cmd.Context(), id); err != nil {
					return err
				}
			}

			html, err := doc.HTML()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			for _, href := range loc.History() {
				info(cmd.ErrOrStderr(), "navigate: %s", href)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&alerts, "alert", "a", nil, "Alert message to show (repeatable)")
	cmd.Flags().StringVarP(&severity, "severity", "s", "success", "Alert severity")
	cmd.Flags().BoolVar(&markup, "markup", false, "Insert alert messages as HTML")
	cmd.Flags().StringArrayVarP(&clicks, "click", "c", nil, "Element id to click (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept every confirmation")

	return cmd
}

func loadDocument(stdin io.Reader, path string) (*dom.Document, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.New("P121").WithDetail("Cannot open " + path).Wrap(err)
		}
		defer f.Close()
		r = f
	}
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, errors.New("P121").Wrap(err)
	}
	return doc, nil
}

// terminalPrompter asks on w and reads y/N answers from r.
func terminalPrompter(r io.Reader, w io.Writer) confirm.Prompter {
	scanner := bufio.NewScanner(r)
	return confirm.PrompterFunc(func(ctx context.Context, message string) (bool, error) {
		fmt.Fprintf(w, "%s [y/N] ", message)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, nil
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	})
}
