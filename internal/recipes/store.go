package recipes

import (
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// IDPolicy selects how a store numbers new recipes.
type IDPolicy string

const (
	IDPolicyCounter IDPolicy = "counter"
	IDPolicySize    IDPolicy = "size"
)

// ParseIDPolicy converts a config value into an IDPolicy.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch p := IDPolicy(s); p {
	case IDPolicyCounter, IDPolicySize:
		return p, nil
	case "":
		return IDPolicyCounter, nil
	default:
		return "", fmt.Errorf("unknown recipe id policy %q: %w", s, common.ErrorValidation)
	}
}

// Store is the recipe collection of one account.
type Store struct {
	mu      sync.RWMutex
	policy  IDPolicy
	recipes []Recipe
	lastID  int

	// now is a test seam.
	now func() time.Time
}

// NewStore returns an empty store. An unknown policy falls back to
// IDPolicyCounter.
func NewStore(policy IDPolicy) *Store {
	if policy != IDPolicySize {
		policy = IDPolicyCounter
	}
	return &Store{policy: policy, now: time.Now}
}

// Policy returns the numbering policy of the store.
func (s *Store) Policy() IDPolicy {
	return s.policy
}

func (s *Store) nextID() int {
	if s.policy == IDPolicySize {
		return len(s.recipes) + 1
	}
	s.lastID++
	return s.lastID
}

// Create appends a new recipe and returns it. All three fields must be
// non-blank.
func (s *Store) Create(title, ingredients, instructions string) (Recipe, error) {
	switch {
	case common.IsBlank(title):
		return Recipe{}, fmt.Errorf("title is required: %w", common.ErrorValidation)
	case common.IsBlank(ingredients):
		return Recipe{}, fmt.Errorf("ingredients are required: %w", common.ErrorValidation)
	case common.IsBlank(instructions):
		return Recipe{}, fmt.Errorf("instructions are required: %w", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	r := Recipe{
		ID:           s.nextID(),
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	s.recipes = append(s.recipes, r)
	return r, nil
}

// List returns a copy of all recipes in insertion order.
func (s *Store) List() []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Len returns the number of recipes in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// indexOf returns the position of the first recipe with id, or -1.
// Callers must hold the lock.
func (s *Store) indexOf(id int) int {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the first recipe with id.
func (s *Store) Get(id int) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Recipe{}, fmt.Errorf("recipe %d: %w", id, common.ErrorNotFound)
	}
	return s.recipes[i], nil
}

// Update applies u to the first recipe with id. Fields left nil keep their
// value; an empty update still succeeds for an existing id.
func (s *Store) Update(id int, u RecipeUpdate) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Recipe{}, fmt.Errorf("recipe %d: %w", id, common.ErrorNotFound)
	}

	r := &s.recipes[i]
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Ingredients != nil {
		r.Ingredients = *u.Ingredients
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
	if !u.IsEmpty() {
		r.UpdatedAt = s.now()
	}
	return *r, nil
}

// Delete removes the first recipe with id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("recipe %d: %w", id, common.ErrorNotFound)
	}
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	return nil
}
