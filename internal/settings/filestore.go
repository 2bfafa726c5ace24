package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore keeps every record in a single YAML document keyed by record name.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(record string) (Record, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := doc[record]
	if !ok || rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *FileStore) Put(record string, values Record) error {
	doc, err := s.read()
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		// A corrupt document is replaced.
		doc = nil
	}
	if doc == nil {
		doc = map[string]Record{}
	}
	doc[record] = values
	return s.write(doc)
}

func (s *FileStore) Erase(record string) error {
	doc, err := s.read()
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if _, ok := doc[record]; !ok {
		return nil
	}
	delete(doc, record)
	return s.write(doc)
}

func (s *FileStore) read() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	doc := map[string]Record{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]Record) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
