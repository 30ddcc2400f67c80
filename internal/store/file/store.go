// Package file keeps a catalog in memory, optionally loaded from a YAML document.
package file

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"recipe-costing/internal/app"
	"recipe-costing/internal/core"
)

type teamKey struct {
	team int
	id   int
}

// Store is an in-memory CatalogRepository. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	nextID      int
	ingredients map[teamKey]core.Ingredient
	recipes     map[teamKey]core.Recipe
	suppliers   map[teamKey]core.Supplier
	plans       map[teamKey]core.SalesPlan
}

var _ app.CatalogRepository = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ingredients: make(map[teamKey]core.Ingredient),
		recipes:     make(map[teamKey]core.Recipe),
		suppliers:   make(map[teamKey]core.Supplier),
		plans:       make(map[teamKey]core.SalesPlan),
	}
}

// Load reads a YAML catalog document from path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML catalog document. Every record goes through the core
// constructors, so the first invalid record fails the whole load.
func Parse(data []byte) (*Store, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	s := NewStore()
	if err := s.Import(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Import adds every record of doc to the store.
func (s *Store) Import(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range doc.Suppliers {
		sup, err := core.NewSupplier(core.Supplier{ID: d.ID, TeamID: doc.TeamID, Name: d.Name, LeadTimeDays: d.LeadTimeDays})
		if err != nil {
			return fmt.Errorf("supplier %d: %w", d.ID, err)
		}
		s.suppliers[teamKey{doc.TeamID, sup.ID}] = sup
		s.bump(sup.ID)
	}
	for _, d := range doc.Ingredients {
		ing, err := d.build(doc.TeamID)
		if err != nil {
			return fmt.Errorf("ingredient %d: %w", d.ID, err)
		}
		s.ingredients[teamKey{doc.TeamID, ing.ID}] = ing
		s.bump(ing.ID)
	}
	for _, d := range doc.Recipes {
		r, err := d.build(doc.TeamID)
		if err != nil {
			return fmt.Errorf("recipe %d: %w", d.ID, err)
		}
		s.recipes[teamKey{doc.TeamID, r.ID}] = r
		s.bump(r.ID)
	}
	for _, d := range doc.SalesPlans {
		p, err := d.build(doc.TeamID)
		if err != nil {
			return fmt.Errorf("sales plan %d: %w", d.ID, err)
		}
		s.plans[teamKey{doc.TeamID, p.ID}] = p
		s.bump(p.ID)
	}
	return nil
}

func (s *Store) bump(id int) {
	if id > s.nextID {
		s.nextID = id
	}
}

func (s *Store) allocID() int {
	s.nextID++
	return s.nextID
}

func (s *Store) ListIngredients(_ context.Context, teamID int) ([]core.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.ingredients, teamID, func(i core.Ingredient) int { return i.ID }), nil
}

func (s *Store) GetIngredient(_ context.Context, teamID, id int) (core.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ing, ok := s.ingredients[teamKey{teamID, id}]
	if !ok {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", id, app.ErrNotFound)
	}
	return ing, nil
}

func (s *Store) CreateIngredient(_ context.Context, ing core.Ingredient) (core.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing.ID = s.allocID()
	s.ingredients[teamKey{ing.TeamID, ing.ID}] = ing
	return ing, nil
}

func (s *Store) UpdateIngredient(_ context.Context, ing core.Ingredient, expectedVersion int) (core.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamKey{ing.TeamID, ing.ID}
	current, ok := s.ingredients[key]
	if !ok {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", ing.ID, app.ErrNotFound)
	}
	if current.Version != expectedVersion {
		return core.Ingredient{}, fmt.Errorf("ingredient %d: %w", ing.ID, app.ErrStaleVersion)
	}
	s.ingredients[key] = ing
	return ing, nil
}

func (s *Store) ListRecipes(_ context.Context, teamID int) ([]core.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.recipes, teamID, func(r core.Recipe) int { return r.ID }), nil
}

func (s *Store) GetRecipe(_ context.Context, teamID, id int) (core.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[teamKey{teamID, id}]
	if !ok {
		return core.Recipe{}, fmt.Errorf("recipe %d: %w", id, app.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListSuppliers(_ context.Context, teamID int) ([]core.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.suppliers, teamID, func(sup core.Supplier) int { return sup.ID }), nil
}

func (s *Store) CreateSupplier(_ context.Context, sup core.Supplier) (core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sup.ID = s.allocID()
	s.suppliers[teamKey{sup.TeamID, sup.ID}] = sup
	return sup, nil
}

func (s *Store) GetSalesPlan(_ context.Context, teamID, id int) (core.SalesPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[teamKey{teamID, id}]
	if !ok {
		return core.SalesPlan{}, fmt.Errorf("sales plan %d: %w", id, app.ErrNotFound)
	}
	return p, nil
}

// collect returns the team's values ordered by id.
func collect[T any](m map[teamKey]T, teamID int, id func(T) int) []T {
	out := make([]T, 0)
	for k, v := range m {
		if k.team == teamID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}
