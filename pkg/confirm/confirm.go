package confirm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vango-dev/pageglue/pkg/middleware"
)

// DefaultMessage is shown when a confirm marker carries no message.
const DefaultMessage = "Are you sure you want to delete this item?"

var (
	// ErrUnknownPrompt is returned by Resolve for ids that are not pending.
	ErrUnknownPrompt = errors.New("confirm: unknown prompt")

	// ErrClosed is returned once a Broker has been closed.
	ErrClosed = errors.New("confirm: broker closed")
)

// Prompter asks the user to accept or decline a message.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Prompter.
func (f PrompterFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Always returns a Prompter that answers every prompt with accept.
func Always(accept bool) Prompter {
	return PrompterFunc(func(context.Context, string) (bool, error) {
		return accept, nil
	})
}

// Gate runs actions only after the user confirms them.
type Gate struct {
	prompter Prompter
	logger   *slog.Logger
	metrics  *middleware.Metrics
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) { g.logger = logger }
}

// WithMetrics records confirmation outcomes.
func WithMetrics(m *middleware.Metrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

// NewGate creates a Gate asking p.
func NewGate(p Prompter, opts ...GateOption) *Gate {
	g := &Gate{prompter: p, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "confirm")
	return g
}

// Run asks for confirmation of message and, on accept, invokes action
// before returning. It reports whether the action ran. An empty message
// is replaced by DefaultMessage.
func (g *Gate) Run(ctx context.Context, message string, action func()) (bool, error) {
	if message == "" {
		message = DefaultMessage
	}

	accepted, err := g.prompter.Confirm(ctx, message)
	if err != nil {
		g.metrics.RecordConfirmation("error")
		g.logger.Debug("confirmation failed", "error", err)
		return false, err
	}
	if !accepted {
		g.metrics.RecordConfirmation("declined")
		g.logger.Debug("confirmation declined", "message", message)
		return false, nil
	}

	g.metrics.RecordConfirmation("accepted")
	g.logger.Debug("confirmation accepted", "message", message)
	if action != nil {
		action()
	}
	return true, nil
}
