package modstore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type format int

const (
	formatTOML format = iota
	formatYAML
)

// document is the on-disk shape of the store
type document struct {
	Mods []*types.ModRecord `toml:"mods" yaml:"mods"`
}

type filesystemStore struct {
	fs     types.FS
	path   string
	format format
	mu     sync.Mutex
	logger zerolog.Logger
}

// New creates a Store backed by the document at path. The file is created
// on the first write.
func New(fs types.FS, path string) Store {
	return &filesystemStore{
		fs:     fs,
		path:   path,
		format: formatFor(path),
		logger: logging.GetLogger("modstore"),
	}
}

func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatTOML
	}
}

// Get implements Reader
func (s *filesystemStore) Get(id string) (*types.ModRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range doc.Mods {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.Newf(errors.ErrModNotFound, "mod %s is not installed", id).
		WithDetail("mod", id)
}

// Mods implements Reader
func (s *filesystemStore) Mods(gameID string) ([]*types.ModRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*types.ModRecord
	for _, rec := range doc.Mods {
		if rec.GameID == gameID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Put implements Store
func (s *filesystemStore) Put(rec *types.ModRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New(errors.ErrInvalidInput, "mod record needs an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range doc.Mods {
		if existing.ID == rec.ID {
			doc.Mods[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Mods = append(doc.Mods, rec)
	}

	if err := s.save(doc); err != nil {
		return err
	}
	s.logger.Debug().
		Str("mod", rec.ID).
		Bool("replaced", replaced).
		Msg("Stored mod record")
	return nil
}

// Remove implements Store
func (s *filesystemStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	kept := doc.Mods[:0]
	found := false
	for _, rec := range doc.Mods {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return errors.Newf(errors.ErrModNotFound, "mod %s is not installed", id).
			WithDetail("mod", id)
	}
	doc.Mods = kept

	if err := s.save(doc); err != nil {
		return err
	}
	s.logger.Debug().Str("mod", id).Msg("Removed mod record")
	return nil
}

// load reads the document; a missing file is an empty store
func (s *filesystemStore) load() (*document, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if errors.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrStoreLoad, "failed to open mod store %s", s.path).
			WithDetail("path", s.path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreLoad, "failed to read mod store %s", s.path).
			WithDetail("path", s.path)
	}

	doc := &document{}
	switch s.format {
	case formatYAML:
		err = yaml.Unmarshal(data, doc)
	default:
		err = toml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreLoad, "failed to parse mod store %s", s.path).
			WithDetail("path", s.path)
	}

	sort.Slice(doc.Mods, func(i, j int) bool { return doc.Mods[i].ID < doc.Mods[j].ID })
	return doc, nil
}

// save writes the document next to the store and renames it into place
func (s *filesystemStore) save(doc *document) error {
	sort.Slice(doc.Mods, func(i, j int) bool { return doc.Mods[i].ID < doc.Mods[j].ID })

	var buf bytes.Buffer
	var err error
	switch s.format {
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = toml.NewEncoder(&buf).Encode(doc)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreSave, "failed to encode mod store").
			WithDetail("path", s.path)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(s.path))
	}
	tmp := s.path + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreSave, "failed to write mod store %s", s.path).
			WithDetail("path", s.path)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStoreSave, "failed to write mod store %s", s.path).
			WithDetail("path", s.path)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStoreSave, "failed to write mod store %s", s.path).
			WithDetail("path", s.path)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStoreSave, "failed to replace mod store %s", s.path).
			WithDetail("path", s.path)
	}
	return nil
}
