// Package filerepo persists sessions as a small JSON document on disk.
package filerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/traveline-backoffice/session"
)

var _ session.Repo = (*FileSessionRepo)(nil)

type document map[string]map[string]string // namespace -> key -> value

type FileSessionRepo struct {
	path string
	mu   sync.Mutex
}

func New(path string) (*FileSessionRepo, error) {
	if path == "" {
		return nil, errors.New("filerepo: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("filerepo: failed to create folder: %w", err)
	}
	return &FileSessionRepo{path: path}, nil
}

func (r *FileSessionRepo) Get(_ context.Context, namespace string, keys ...string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := doc[namespace][key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (r *FileSessionRepo) Set(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := doc[namespace]; !ok {
		doc[namespace] = make(map[string]string)
	}
	doc[namespace][key] = value
	return r.write(doc)
}

func (r *FileSessionRepo) Delete(_ context.Context, namespace string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.read()
	if err != nil {
		return err
	}
	stored, ok := doc[namespace]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(stored, key)
	}
	if len(stored) == 0 {
		delete(doc, namespace)
	}
	return r.write(doc)
}

func (r *FileSessionRepo) read() (document, error) {
	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filerepo: failed to read %s: %w", r.path, err)
	}
	if len(content) == 0 {
		return document{}, nil
	}

	doc := document{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("filerepo: corrupt session file %s: %w", r.path, err)
	}
	return doc, nil
}

// write replaces the file through a rename so readers see either the old or
// the new document.
func (r *FileSessionRepo) write(doc document) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("filerepo: failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return fmt.Errorf("filerepo: failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("filerepo: failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("filerepo: failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filerepo: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("filerepo: failed to replace session file: %w", err)
	}
	return nil
}
