package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"menu-bot/metrics"
	"menu-bot/models"
	"menu-bot/storage"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidOrder     = errors.New("category order must list every category exactly once")
)

// PersistError reports a failed save. The change it belongs to has already
// been applied in memory and stays in effect for the session.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "catalog saved in memory only: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

type categoryState struct {
	title   models.Localized
	itemIDs []string
}

// catalogState is the arena form of models.MenuData: items are stored once by
// id and categories hold ordered id lists.
type catalogState struct {
	order        []string
	categories   map[string]*categoryState
	items        map[string]models.MenuItem
	itemCategory map[string]string
	contacts     []models.Contact
	address      string
}

func newCatalogState(m models.MenuData) *catalogState {
	st := &catalogState{
		categories:   make(map[string]*categoryState, len(m.Categories)),
		items:        make(map[string]models.MenuItem),
		itemCategory: make(map[string]string),
		contacts:     append([]models.Contact(nil), m.Contacts...),
		address:      m.Address,
	}
	for _, c := range m.Categories {
		if _, dup := st.categories[c.ID]; dup {
			continue
		}
		cs := &categoryState{title: c.Title}
		for _, it := range c.Items {
			if _, dup := st.items[it.ID]; dup {
				continue
			}
			st.items[it.ID] = it.Clone()
			st.itemCategory[it.ID] = c.ID
			cs.itemIDs = append(cs.itemIDs, it.ID)
		}
		st.categories[c.ID] = cs
		st.order = append(st.order, c.ID)
	}
	return st
}

// clone copies the maps and id slices; MenuItem values are copied on write.
func (st *catalogState) clone() *catalogState {
	out := &catalogState{
		order:        append([]string(nil), st.order...),
		categories:   make(map[string]*categoryState, len(st.categories)),
		items:        make(map[string]models.MenuItem, len(st.items)),
		itemCategory: make(map[string]string, len(st.itemCategory)),
		contacts:     append([]models.Contact(nil), st.contacts...),
		address:      st.address,
	}
	for id, cs := range st.categories {
		out.categories[id] = &categoryState{title: cs.title, itemIDs: append([]string(nil), cs.itemIDs...)}
	}
	for id, it := range st.items {
		out.items[id] = it
	}
	for id, c := range st.itemCategory {
		out.itemCategory[id] = c
	}
	return out
}

func (st *catalogState) category(id string) models.MenuCategory {
	cs := st.categories[id]
	c := models.MenuCategory{ID: id, Title: cs.title, Items: make([]models.MenuItem, 0, len(cs.itemIDs))}
	for _, itemID := range cs.itemIDs {
		c.Items = append(c.Items, st.items[itemID].Clone())
	}
	return c
}

func (st *catalogState) menuData() models.MenuData {
	m := models.MenuData{
		Categories: make([]models.MenuCategory, 0, len(st.order)),
		Contacts:   append([]models.Contact{}, st.contacts...),
		Address:    st.address,
	}
	for _, id := range st.order {
		m.Categories = append(m.Categories, st.category(id))
	}
	return m
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// CatalogStore holds the live menu. Every mutation builds a new state,
// swaps it in and writes the whole catalog to the persister.
// Safe for concurrent use.
type CatalogStore struct {
	writeMu   sync.Mutex // serializes mutate so saves land in order
	mu        sync.RWMutex
	state     *catalogState
	persister storage.Persister
}

// NewCatalogStore wraps data without loading anything.
func NewCatalogStore(data models.MenuData, persister storage.Persister) *CatalogStore {
	return &CatalogStore{state: newCatalogState(data), persister: persister}
}

// ErrCorruptMenu marks stored data that could not be decoded or validated.
var ErrCorruptMenu = errors.New("stored menu is unreadable")

// OpenCatalog loads the stored catalog. Nothing stored gives the defaults;
// corrupt data gives the defaults and is logged. Any other load error is
// returned so a temporarily unreachable store is never overwritten.
// Stored data without contacts or address gets them from defaults.
func OpenCatalog(ctx context.Context, persister storage.Persister, defaults models.MenuData) (*CatalogStore, error) {
	data, err := loadMenuData(ctx, persister, defaults)
	switch {
	case errors.Is(err, ErrCorruptMenu):
		metrics.CatalogLoadFallbacks.Inc()
		log.Error().Err(err).Str("driver", string(persister.Driver())).Msg("failed to load saved menu, using built-in menu")
		data = defaults.Clone()
	case err != nil:
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return NewCatalogStore(data, persister), nil
}

func loadMenuData(ctx context.Context, persister storage.Persister, defaults models.MenuData) (models.MenuData, error) {
	raw, err := persister.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return defaults.Clone(), nil
	}
	if err != nil {
		return models.MenuData{}, err
	}
	var m models.MenuData
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.MenuData{}, fmt.Errorf("%w: decode: %w", ErrCorruptMenu, err)
	}
	if m.Contacts == nil {
		m.Contacts = append([]models.Contact(nil), defaults.Contacts...)
	}
	if m.Address == "" {
		m.Address = defaults.Address
	}
	if err := m.Validate(); err != nil {
		return models.MenuData{}, fmt.Errorf("%w: validate: %w", ErrCorruptMenu, err)
	}
	return m, nil
}

// Snapshot returns a deep copy of the current catalog.
func (s *CatalogStore) Snapshot() models.MenuData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.menuData()
}

func (s *CatalogStore) Categories() []models.MenuCategory {
	return s.Snapshot().Categories
}

func (s *CatalogStore) Category(id string) (models.MenuCategory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.state.categories[id]; !ok {
		return models.MenuCategory{}, false
	}
	return s.state.category(id), true
}

// Item looks an item up by id across all categories.
func (s *CatalogStore) Item(id string) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.state.items[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return it.Clone(), true
}

// ItemCategory returns the id of the category that owns itemID.
func (s *CatalogStore) ItemCategory(itemID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.itemCategory[itemID]
	return c, ok
}

func (s *CatalogStore) Contacts() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Contact{}, s.state.contacts...)
}

// RestaurantPhone is the digits of the canonical contact, or fallback.
func (s *CatalogStore) RestaurantPhone(fallback string) string {
	return RestaurantPhone(s.Contacts(), fallback)
}

func (s *CatalogStore) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.address
}

// UpsertItem replaces the item with the same id, or appends it to the end of
// the category. An item living in another category is moved.
func (s *CatalogStore) UpsertItem(ctx context.Context, categoryID string, item models.MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		cs, ok := st.categories[categoryID]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
		}
		if prev, ok := st.itemCategory[item.ID]; ok && prev != categoryID {
			st.categories[prev].itemIDs = removeID(st.categories[prev].itemIDs, item.ID)
			delete(st.itemCategory, item.ID)
		}
		if _, ok := st.itemCategory[item.ID]; !ok {
			cs.itemIDs = append(cs.itemIDs, item.ID)
			st.itemCategory[item.ID] = categoryID
		}
		st.items[item.ID] = item.Clone()
		return true, nil
	})
}

// RemoveItem deletes itemID from categoryID. Missing ids are a no-op.
func (s *CatalogStore) RemoveItem(ctx context.Context, categoryID, itemID string) error {
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		cs, ok := st.categories[categoryID]
		if !ok || st.itemCategory[itemID] != categoryID {
			return false, nil
		}
		cs.itemIDs = removeID(cs.itemIDs, itemID)
		delete(st.items, itemID)
		delete(st.itemCategory, itemID)
		return true, nil
	})
}

// ReorderCategories sets the category order. ids must be a permutation of the
// current category ids.
func (s *CatalogStore) ReorderCategories(ctx context.Context, ids []string) error {
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		if len(ids) != len(st.order) {
			return false, ErrInvalidOrder
		}
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if _, ok := st.categories[id]; !ok || seen[id] {
				return false, ErrInvalidOrder
			}
			seen[id] = true
		}
		st.order = append([]string(nil), ids...)
		return true, nil
	})
}

// MoveCategory shifts a category by delta positions (-1 up, +1 down).
// Moves past either end are ignored.
func (s *CatalogStore) MoveCategory(ctx context.Context, id string, delta int) error {
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		from := -1
		for i, v := range st.order {
			if v == id {
				from = i
				break
			}
		}
		if from < 0 {
			return false, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		to := from + delta
		if delta == 0 || to < 0 || to >= len(st.order) {
			return false, nil
		}
		st.order[from], st.order[to] = st.order[to], st.order[from]
		return true, nil
	})
}

// ReplaceContacts swaps the whole contact list. Contacts without an id get one.
func (s *CatalogStore) ReplaceContacts(ctx context.Context, contacts []models.Contact) error {
	next := make([]models.Contact, len(contacts))
	for i, c := range contacts {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		next[i] = c
	}
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		st.contacts = next
		return true, nil
	})
}

func (s *CatalogStore) ReplaceAddress(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	return s.mutate(ctx, func(st *catalogState) (bool, error) {
		st.address = address
		return true, nil
	})
}

// mutate applies fn to a copy of the state. When fn reports a change the copy
// replaces the current state and is persisted. A failed save returns a
// *PersistError; the new state is kept.
func (s *CatalogStore) mutate(ctx context.Context, fn func(st *catalogState) (bool, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := s.state.clone()
	s.mu.RUnlock()
	changed, err := fn(next)
	if err != nil || !changed {
		return err
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	data := next.menuData()

	if err := s.persist(ctx, data); err != nil {
		metrics.CatalogSaves.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("driver", string(s.persister.Driver())).Msg("failed to save menu")
		return &PersistError{Err: err}
	}
	metrics.CatalogSaves.WithLabelValues("ok").Inc()
	return nil
}

func (s *CatalogStore) persist(ctx context.Context, data models.MenuData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}
	return s.persister.Save(ctx, b)
}
