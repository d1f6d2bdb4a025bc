package trace

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Cache memoizes parse results keyed by a hash of the log content.
// It is safe for concurrent use; concurrent requests for the same content
// parse it only once.
type Cache struct {
	entries sync.Map // uint64 -> *entry
	size    atomic.Int64
}

type entry struct {
	once   sync.Once
	sample Sample
	err    error
}

// Parse returns the Sample for the given log content.
// Each call returns an independent copy of the cached Sample.
func (c *Cache) Parse(data []byte) (Sample, error) {
	value, loaded := c.entries.LoadOrStore(xxh3.Hash(data), new(entry))
	if !loaded {
		c.size.Add(1)
	}

	e, _ := value.(*entry)
	e.once.Do(func() {
		e.sample, e.err = ParseString(string(data))
	})

	if e.err != nil {
		return Sample{}, e.err
	}

	return e.sample.Clone(), nil
}

// ParseReader reads all of r and returns its Sample via [Cache.Parse].
func (c *Cache) ParseReader(r io.Reader) (Sample, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Sample{}, ErrRead.Wrap(err)
	}

	return c.Parse(data)
}

// Len returns the number of distinct log contents seen.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Clear removes all cached results.
func (c *Cache) Clear() {
	c.entries.Clear()
	c.size.Store(0)
}
