package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shop-catalog/internal/logger"
)

// Handler serves catalog views over HTTP
type Handler struct {
	ds       DataService
	sessions *Sessions
	newStore func() *Store
}

// NewHandler creates a catalog handler. newStore builds the store used for one-shot listings.
func NewHandler(ds DataService, sessions *Sessions, newStore func() *Store) *Handler {
	return &Handler{ds: ds, sessions: sessions, newStore: newStore}
}

// Register mounts the catalog routes on r
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/brands", h.ListBrands).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", h.ListCategories).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/api/sessions/{id}/actions", h.DispatchAction).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/refresh", h.RefreshSession).Methods(http.MethodPost)
}

// writeJSON encodes v before committing the status so an encode failure becomes a 500
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Errorf("encode response: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debugf("write response: %v", err)
	}
}

func parseFloat(q map[string][]string, key string) (*float64, error) {
	vals := q[key]
	if len(vals) == 0 || vals[0] == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(vals[0], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, errors.New(key + " must be a finite non-negative number")
	}
	return &f, nil
}

// queryActions turns listing query parameters into the equivalent action sequence
func queryActions(r *http.Request, bounds PriceRange) ([]Action, error) {
	q := r.URL.Query()
	var actions []Action

	if s := q.Get("q"); s != "" {
		actions = append(actions, SetSearch{Search: s})
	}
	if brands := q["brand"]; len(brands) > 0 {
		actions = append(actions, SetBrands{Brands: brands})
	}
	if categories := q["category"]; len(categories) > 0 {
		actions = append(actions, SetCategories{Categories: categories})
	}

	min, err := parseFloat(q, "min")
	if err != nil {
		return nil, err
	}
	max, err := parseFloat(q, "max")
	if err != nil {
		return nil, err
	}
	if min != nil || max != nil {
		actions = append(actions, SetPriceRange{Range: rangeFrom(min, max, bounds)})
	}

	sortKey, err := ParseSortKey(q.Get("sort"))
	if err != nil {
		return nil, err
	}
	actions = append(actions, SetSort{Sort: sortKey})

	if s := q.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			return nil, errors.New("page_size must be between 1 and 100")
		}
		actions = append(actions, SetPageSize{Size: n})
	}
	// page goes last: every other action resets it to 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.New("page must be an integer")
		}
		actions = append(actions, SetPage{Page: n})
	}
	return actions, nil
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	st := h.newStore()
	defer st.Close()

	if err := st.Load(r.Context()); err != nil {
		logger.Errorf("ListProducts: %v", err)
		http.Error(w, "failed to load catalog", http.StatusBadGateway)
		return
	}

	actions, err := queryActions(r, st.State().Bounds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := st.View()
	for _, a := range actions {
		view = st.Dispatch(a)
	}
	writeJSON(w, http.StatusOK, view)
}

// ListBrands handles GET /api/brands
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.ds.ListBrands(r.Context())
	if err != nil {
		logger.Errorf("ListBrands: %v", err)
		http.Error(w, "failed to load brands", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(brands))
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ds.ListCategories(r.Context())
	if err != nil {
		logger.Errorf("ListCategories: %v", err)
		http.Error(w, "failed to load categories", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(categories))
}

// SessionResponse pairs a session id with its current view
type SessionResponse struct {
	ID   string `json:"id"`
	View View   `json:"view"`
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	id, st := h.sessions.Open()
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, View: st.View()})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (string, *Store, bool) {
	id := mux.Vars(r)["id"]
	st, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, st, true
}

// GetSession handles GET /api/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, View: st.View()})
}

// DispatchAction handles POST /api/sessions/{id}/actions
func (h *Handler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	view, err := st.DispatchFunc(req.ToAction)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, View: view})
}

// RefreshSession handles POST /api/sessions/{id}/refresh
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	id, st, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.sessions.Refresh(id, st)
	writeJSON(w, http.StatusAccepted, SessionResponse{ID: id, View: st.View()})
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(mux.Vars(r)["id"]); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
