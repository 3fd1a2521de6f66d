package vtest

import (
	"context"
	"sync"
)

// Prompter is a scripted confirm.Prompter. Queued answers are used in
// order; once they run out every prompt gets the default answer.
type Prompter struct {
	mu      sync.Mutex
	answers []bool
	def     bool
	asked   []string
}

// NewPrompter creates a Prompter whose default answer is def.
func NewPrompter(def bool) *Prompter {
	return &Prompter{def: def}
}

// Queue appends answers for the next prompts.
func (p *Prompter) Queue(answers ...bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers = append(p.answers, answers...)
}

// Confirm implements confirm.Prompter.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asked = append(p.asked, message)
	if len(p.answers) == 0 {
		return p.def, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// Asked returns every message prompted so far.
func (p *Prompter) Asked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.asked...)
}
