package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"pontos/internal/core"
	"pontos/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu         sync.Mutex
	nextID     int64
	children   map[int64]core.Child
	activities []core.Activity
	expenses   []core.Expense
}

func New() *Store {
	return &Store{children: make(map[int64]core.Child)}
}

// seedChild is the on-disk format of seed.json.
type seedChild struct {
	Name           string `json:"name"`
	InitialBalance int64  `json:"initialBalance"`
	StartDate      string `json:"startDate"`
}

// NewFromFiles seeds the store with children from base/seed.json when present.
// A missing file yields an empty store. An unreadable file, malformed JSON or an
// invalid entry is an error.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	if base == "" {
		return s, nil
	}
	path := filepath.Join(base, "seed.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seeds []seedChild
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, sc := range seeds {
		c := core.Child{Name: sc.Name, InitialBalance: sc.InitialBalance}
		if sc.StartDate != "" {
			t, err := time.Parse(time.RFC3339, sc.StartDate)
			if err != nil {
				return nil, fmt.Errorf("seed entry %d start date: %w", i, err)
			}
			c.StartDate = t
		}
		if _, err := s.CreateChild(context.Background(), c); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
	}
	return s, nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateChild(_ context.Context, c core.Child) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.children[c.ID] = c
	return c.ID, nil
}

func (s *Store) GetChild(_ context.Context, id int64) (core.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.children[id]
	if !ok {
		return core.Child{}, fmt.Errorf("child %d: %w", id, ports.ErrChildNotFound)
	}
	return c, nil
}

// ListChildren returns children ordered by id.
func (s *Store) ListChildren(_ context.Context) ([]core.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Child, 0, len(s.children))
	for _, c := range s.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddActivity(_ context.Context, a core.Activity) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.children[a.ChildID]; !ok {
		return 0, fmt.Errorf("child %d: %w", a.ChildID, ports.ErrChildNotFound)
	}
	a.ID = s.id()
	s.activities = append(s.activities, a)
	return a.ID, nil
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.children[e.ChildID]; !ok {
		return 0, fmt.Errorf("child %d: %w", e.ChildID, ports.ErrChildNotFound)
	}
	e.ID = s.id()
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) ListActivities(_ context.Context, childID int64) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Activity
	for _, a := range s.activities {
		if a.ChildID == childID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) ListExpenses(_ context.Context, childID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.ChildID == childID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
