package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/pageglue/pkg/notify"
	"github.com/vango-dev/pageglue/pkg/toast"
	"github.com/vango-dev/pageglue/pkg/vdom"
)

// Item is an entry of the demo item list.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ItemsRegionID is the id of the element holding the item list. Live pages
// rebuild its children whenever the store changes.
const ItemsRegionID = "items"

// ItemStore is an in-memory item list.
type ItemStore struct {
	mu     sync.RWMutex
	items  map[int]Item
	nextID int

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

// NewItemStore creates a store holding one item per name.
func NewItemStore(names ...string) *ItemStore {
	s := &ItemStore{items: make(map[int]Item), nextID: 1, observers: make(map[int]func())}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Subscribe registers fn to run after every Add and Delete.
// The returned function removes the subscription.
func (s *ItemStore) Subscribe(fn func()) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *ItemStore) changed() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Add stores a new item.
func (s *ItemStore) Add(name string) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, ErrItemName
	}
	s.mu.Lock()
	it := Item{ID: s.nextID, Name: name}
	s.items[it.ID] = it
	s.nextID++
	s.mu.Unlock()

	s.changed()
	return it, nil
}

// Delete removes the item with id.
func (s *ItemStore) Delete(id int) (Item, error) {
	s.mu.Lock()
	it, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()

	if !ok {
		return Item{}, ErrItemNotFound
	}
	s.changed()
	return it, nil
}

// List returns the items ordered by id.
func (s *ItemStore) List() []Item {
	s.mu.RLock()
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// itemsPage renders the item list with confirm-guarded delete links.
func (s *Server) itemsPage() *vdom.VNode {
	return vdom.Body(vdom.Main(
		vdom.Class("container", "py-4"),
		vdom.H1(s.config.Title),
		vdom.Div(vdom.ID(ItemsRegionID), s.itemList()),
	))
}

// itemList builds a fresh list node; every document gets its own copy.
func (s *Server) itemList() *vdom.VNode {
	items := s.items.List()
	rows := make([]any, 0, len(items))
	for _, it := range items {
		id := strconv.Itoa(it.ID)
		rows = append(rows, vdom.Li(
			vdom.ID("item-"+id),
			vdom.Class("list-group-item", "d-flex", "justify-content-between"),
			vdom.Strong(it.Name),
			vdom.A(
				vdom.ID("delete-"+id),
				vdom.Class("btn", "btn-sm", "btn-outline-danger"),
				vdom.Href("/items/"+id+"/delete"),
				vdom.Data("confirm", "Delete "+it.Name+"?"),
				"Delete",
			),
		))
	}
	if len(rows) == 0 {
		return vdom.P(vdom.Class("text-muted"), "No items.")
	}
	return vdom.Ul(append([]any{vdom.Class("list-group")}, rows...)...)
}

type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.items.List())
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	it, err := s.items.Add(in.Name)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	s.logger.Info("item created", "id", it.ID, "name", it.Name)
	s.Broadcast("Added "+it.Name, notify.WithSeverity(notify.SeveritySuccess))
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.deleteItem(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			writeDetail(w, http.StatusNotFound, "item not found")
			return
		}
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// handleDeleteLink is the target of the confirm-guarded delete links.
func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	it, err := s.deleteItem(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The page that followed the link is gone; its replacement shows this.
	s.toasts.Warning(toast.Key(w, r), "Deleted "+it.Name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) deleteItem(raw string) (Item, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return Item{}, errors.New("invalid item id")
	}
	it, err := s.items.Delete(id)
	if err != nil {
		return Item{}, err
	}
	s.logger.Info("item deleted", "id", it.ID)
	s.Broadcast("Deleted "+it.Name, notify.WithSeverity(notify.SeverityWarning))
	return it, nil
}
