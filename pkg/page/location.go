package page

import (
	"context"
	"sync"
)

// Location is a Navigator that records where the page went.
type Location struct {
	mu      sync.Mutex
	href    string
	history []string
}

// Navigate implements Navigator.
func (l *Location) Navigate(_ context.Context, href string) error {
	l.mu.Lock()
	l.href = href
	l.history = append(l.history, href)
	l.mu.Unlock()
	return nil
}

// Href returns the last navigated href.
func (l *Location) Href() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.href
}

// History returns every navigated href in order.
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}
