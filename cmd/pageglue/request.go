package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/vango-dev/pageglue/internal/config"
	"github.com/vango-dev/pageglue/internal/errors"
	"github.com/vango-dev/pageglue/pkg/dom"
	"github.com/vango-dev/pageglue/pkg/middleware"
	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/request"
)

func requestCmd(a *app) *cobra.Command {
	var (
		method      string
		data        string
		contentType string
		headers     []string
	)

	cmd := &cobra.Command{
		Use:   "request <url>",
		Short: "Send one JSON request",
		Long: `Send one request and print the decoded JSON response.

Failures are shown as alerts, exactly as a page would show them.
A --data value starting with @ is read from that file.

Examples:
  pageglue request http://localhost:8080/api/items
  pageglue request /api/items -X POST -d '{"name":"gamma"}'
  pageglue request /api/items/3 -X DELETE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readData(data)
			if err != nil {
				return err
			}

			notifier := notify.New(dom.New(nil), notify.Config{
				Timeout: -1,
				Logger:  a.logger,
			})
			client, err := newClient(a.cfg, notifier, headers)
			if err != nil {
				return err
			}

			req := request.Request{
				URL:         args[0],
				Method:      method,
				ContentType: contentType,
			}
			if body != nil {
				req.Data = requestBody(body, contentType)
			}

			var out json.RawMessage
			err = client.DoInto(cmd.Context(), req, &out)
			printAlerts(cmd.ErrOrStderr(), notifier.Active(), a.cfg.ColorEnabled())
			if err != nil {
				return errors.New("P160").Wrap(err)
			}
			if len(out) > 0 {
				printJSON(cmd.OutOrStdout(), out, a.cfg.ColorEnabled())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body, or @file")
	cmd.Flags().StringVarP(&contentType, "content-type", "t", request.ContentTypeJSON, "Request content type")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra header as Key: Value (repeatable)")

	return cmd
}

// newClient builds a request client from the request section of
// pageglue.json plus flag headers.
func newClient(cfg *config.Config, n request.Notifier, headers []string) (*request.Client, error) {
	opts := []request.Option{
		request.WithNotifier(n),
		request.WithMetrics(middleware.Default()),
	}
	if cfg.Request.BaseURL != "" {
		opts = append(opts, request.WithBaseURL(cfg.Request.BaseURL))
	}
	for k, v := range cfg.Request.Headers {
		opts = append(opts, request.WithHeader(k, v))
	}
	for _, h := range headers {
		k, v, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.New("P120").
				WithDetail("--header " + h + " is not in Key: Value form")
		}
		opts = append(opts, request.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
	}

	client, err := request.New(opts...)
	if err != nil {
		return nil, errors.New("P104").Wrap(err)
	}
	return client, nil
}

// readData resolves the --data flag. An empty flag means no body.
func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New("P121").
				WithDetail("Cannot read " + path).
				Wrap(err)
		}
		return b, nil
	}
	return []byte(data), nil
}

// requestBody passes JSON bodies through verbatim; encoding them
// validates the syntax.
func requestBody(body []byte, contentType string) any {
	if contentType == "" || strings.Contains(contentType, "json") {
		return json.RawMessage(body)
	}
	return body
}

func printAlerts(w io.Writer, alerts []*notify.Alert, color bool) {
	for _, alert := range alerts {
		label := strings.ToUpper(string(alert.Severity))
		if color {
			label = severityColor(alert.Severity) + label + "\033[0m"
		}
		fmt.Fprintf(w, "[%s] %s\n", label, alert.Message)
	}
}

func severityColor(s notify.Severity) string {
	switch s {
	case notify.SeverityDanger:
		return "\033[31m"
	case notify.SeverityWarning:
		return "\033[33m"
	case notify.SeveritySuccess:
		return "\033[32m"
	default:
		return "\033[36m"
	}
}

func printJSON(w io.Writer, raw []byte, color bool) {
	out := pretty.Pretty(raw)
	if color {
		out = pretty.Color(out, nil)
	}
	w.Write(out)
}
