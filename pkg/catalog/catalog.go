// Package catalog keeps a persistent index of parsed logs in a pebble
// database so logs can be listed and inspected without parsing them again.
//
// Keys:
//
//	log/<ksuid bytes>   JSON Summary
//	path/<file path>    ksuid bytes of the summary for that path
//
// KSUIDs lead with their creation second, so List returns summaries roughly
// oldest first.
package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

var (
	// ErrNotFound is returned when no summary has the requested id.
	ErrNotFound = errors.New("catalog: not found")
	// ErrClosed is returned by operations on a closed catalog.
	ErrClosed = errors.New("catalog: closed")
)

var (
	logPrefix  = []byte("log/")
	pathPrefix = []byte("path/")
)

// Recorder receives the outcome of every catalog operation.
type Recorder interface {
	RecordCatalogOperation(operation string, success bool)
}

// Config configures a Catalog.
type Config struct {
	Dir      string
	Sync     bool // fsync every write
	Logger   *slog.Logger
	Recorder Recorder
}

// Catalog is a pebble-backed store of log summaries. It is safe for
// concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	db       *pebble.DB
	write    *pebble.WriteOptions
	log      *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Open opens or creates the catalog in cfg.Dir.
func Open(cfg Config) (*Catalog, error) {
	if cfg.Dir == "" {
		return nil, errors.New("catalog: directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, errors.Wrap(err, "failed to create catalog directory")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := pebble.Open(cfg.Dir, &pebble.Options{
		Logger: pebbleLogger{log: logger},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog %s", cfg.Dir)
	}

	write := pebble.NoSync
	if cfg.Sync {
		write = pebble.Sync
	}
	return &Catalog{
		db:       db,
		write:    write,
		log:      logger,
		recorder: cfg.Recorder,
		now:      time.Now,
	}, nil
}

// Add stores s. A log already cataloged under the same path keeps its id
// and has its summary replaced; otherwise a new id is assigned.
func (c *Catalog) Add(s Summary) (_ Summary, err error) {
	defer c.record("add", &err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return Summary{}, ErrClosed
	}

	id, err := c.idForPath(s.Path)
	switch {
	case err == nil:
		c.log.Debug("replacing catalog entry", slog.String("id", id.String()), slog.String("path", s.Path))
	case errors.Is(err, ErrNotFound):
		id = ksuid.New()
	default:
		return Summary{}, err
	}
	s.ID = id
	s.AddedAt = c.now().UTC()

	data, err := json.Marshal(s)
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to marshal summary")
	}

	b := c.db.NewBatch()
	defer b.Close()
	if err := b.Set(logKey(id), data, nil); err != nil {
		return Summary{}, errors.Wrap(err, "failed to stage summary")
	}
	if err := b.Set(pathKey(s.Path), id.Bytes(), nil); err != nil {
		return Summary{}, errors.Wrap(err, "failed to stage path index")
	}
	if err := b.Commit(c.write); err != nil {
		return Summary{}, errors.Wrap(err, "failed to commit summary")
	}

	c.log.Debug("cataloged log",
		slog.String("id", id.String()),
		slog.String("path", s.Path),
		slog.Int("entries", len(s.Entries)))
	return s, nil
}

// Get returns the summary with the given id.
func (c *Catalog) Get(id ksuid.KSUID) (_ Summary, err error) {
	defer c.record("get", &err)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return Summary{}, ErrClosed
	}
	return c.get(id)
}

// Lookup returns the summary cataloged for path.
func (c *Catalog) Lookup(path string) (_ Summary, err error) {
	defer c.record("lookup", &err)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return Summary{}, ErrClosed
	}

	id, err := c.idForPath(path)
	if err != nil {
		return Summary{}, err
	}
	return c.get(id)
}

// List returns every summary in id order.
func (c *Catalog) List() (_ []Summary, err error) {
	defer c.record("list", &err)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, ErrClosed
	}

	it, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: logPrefix,
		UpperBound: upperBound(logPrefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create iterator")
	}
	defer func() { _ = it.Close() }()

	var out []Summary
	for ok := it.First(); ok; ok = it.Next() {
		var s Summary
		if err := json.Unmarshal(it.Value(), &s); err != nil {
			return nil, errors.Wrapf(err, "failed to decode summary at key %x", it.Key())
		}
		out = append(out, s)
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to scan catalog")
	}
	return out, nil
}

// Delete removes the summary with the given id and its path index.
func (c *Catalog) Delete(id ksuid.KSUID) (err error) {
	defer c.record("delete", &err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return ErrClosed
	}

	s, err := c.get(id)
	if err != nil {
		return err
	}

	b := c.db.NewBatch()
	defer b.Close()
	if err := b.Delete(logKey(id), nil); err != nil {
		return errors.Wrap(err, "failed to stage delete")
	}
	if err := b.Delete(pathKey(s.Path), nil); err != nil {
		return errors.Wrap(err, "failed to stage path index delete")
	}
	if err := b.Commit(c.write); err != nil {
		return errors.Wrap(err, "failed to commit delete")
	}
	return nil
}

// Close closes the underlying database. Close is idempotent.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// ParseID parses the string form of a summary id.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(err, "invalid catalog id %q", s)
	}
	return id, nil
}

func (c *Catalog) get(id ksuid.KSUID) (Summary, error) {
	data, closer, err := c.db.Get(logKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return Summary{}, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to read summary")
	}
	defer closer.Close()

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, errors.Wrapf(err, "failed to decode summary %s", id)
	}
	return s, nil
}

func (c *Catalog) idForPath(path string) (ksuid.KSUID, error) {
	data, closer, err := c.db.Get(pathKey(path))
	if errors.Is(err, pebble.ErrNotFound) {
		return ksuid.Nil, errors.Wrapf(ErrNotFound, "path %s", path)
	}
	if err != nil {
		return ksuid.Nil, errors.Wrap(err, "failed to read path index")
	}
	defer closer.Close()

	id, err := ksuid.FromBytes(data)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(err, "corrupt path index for %s", path)
	}
	return id, nil
}

func (c *Catalog) record(operation string, err *error) {
	if c.recorder != nil {
		c.recorder.RecordCatalogOperation(operation, *err == nil)
	}
}

func logKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, logPrefix...), id.Bytes()...)
}

func pathKey(path string) []byte {
	return append(append([]byte{}, pathPrefix...), path...)
}

// upperBound returns the smallest key greater than every key with prefix.
// Prefixes are ASCII, so the last byte never overflows.
func upperBound(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	end[len(end)-1]++
	return end
}
