package toast

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/pageglue/pkg/notify"
)

// CookieName is the cookie that identifies a browser to the queue.
const CookieName = "pageglue_toast"

// DefaultLimit caps the toasts held per browser. Older toasts are
// dropped first.
const DefaultLimit = 16

// Toast is a pending alert.
type Toast struct {
	Severity notify.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// Queue holds pending toasts per browser key. The zero value is not
// usable; call NewQueue.
type Queue struct {
	mu      sync.Mutex
	pending map[string][]Toast
	limit   int
}

// NewQueue creates a Queue. A limit below one means DefaultLimit.
func NewQueue(limit int) *Queue {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Queue{
		pending: make(map[string][]Toast),
		limit:   limit,
	}
}

// Push queues t for key. Empty keys are ignored.
func (q *Queue) Push(key string, t Toast) {
	if key == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	list := append(q.pending[key], t)
	if len(list) > q.limit {
		list = list[len(list)-q.limit:]
	}
	q.pending[key] = list
}

// Success queues a success toast.
func (q *Queue) Success(key, message string) {
	q.Push(key, Toast{Severity: notify.SeveritySuccess, Message: message})
}

// Danger queues a danger toast.
func (q *Queue) Danger(key, message string) {
	q.Push(key, Toast{Severity: notify.SeverityDanger, Message: message})
}

// Warning queues a warning toast.
func (q *Queue) Warning(key, message string) {
	q.Push(key, Toast{Severity: notify.SeverityWarning, Message: message})
}

// Info queues an info toast.
func (q *Queue) Info(key, message string) {
	q.Push(key, Toast{Severity: notify.SeverityInfo, Message: message})
}

// Len returns the number of toasts pending for key.
func (q *Queue) Len(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending[key])
}

// Drain removes and returns the toasts pending for key, oldest first.
func (q *Queue) Drain(key string) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	list := q.pending[key]
	delete(q.pending, key)
	return list
}

// Show drains key into n and returns how many alerts were shown. Toasts
// after the first failure are put back.
func (q *Queue) Show(key string, n *notify.Notifier) (int, error) {
	list := q.Drain(key)
	for i, t := range list {
		if _, err := n.Notify(t.Message, notify.WithSeverity(t.Severity)); err != nil {
			for _, rest := range list[i:] {
				q.Push(key, rest)
			}
			return i, err
		}
	}
	return len(list), nil
}

// Key returns the browser key carried by r's toast cookie, issuing a new
// cookie on w when r has none.
func Key(w http.ResponseWriter, r *http.Request) string {
	if key := KeyOf(r); key != "" {
		return key
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

// KeyOf returns the browser key carried by r, or "" when there is none.
func KeyOf(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}
