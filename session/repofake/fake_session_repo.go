package repofake

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/traveline-backoffice/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session.Repo. It is also the "memory"
// session backend of the console.
type FakeSessionRepo struct {
	mu     sync.RWMutex
	values map[string]map[string]string // namespace -> key -> value

	// FailWrites makes Set and Delete return an error, for failure-path tests.
	FailWrites bool
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{values: make(map[string]map[string]string)}
}

func (r *FakeSessionRepo) Get(_ context.Context, namespace string, keys ...string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := r.values[namespace][key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (r *FakeSessionRepo) Set(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("fake repo: write refused")
	}
	if _, ok := r.values[namespace]; !ok {
		r.values[namespace] = make(map[string]string)
	}
	r.values[namespace][key] = value
	return nil
}

func (r *FakeSessionRepo) Delete(_ context.Context, namespace string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWrites {
		return fmt.Errorf("fake repo: write refused")
	}
	stored, ok := r.values[namespace]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(stored, key)
	}
	if len(stored) == 0 {
		delete(r.values, namespace)
	}
	return nil
}

// Raw returns a copy of everything stored under namespace.
func (r *FakeSessionRepo) Raw(namespace string) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.values[namespace]))
	for k, v := range r.values[namespace] {
		out[k] = v
	}
	return out
}
