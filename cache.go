package xip

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of decoded containers a DecodeCache keeps
// when created with size <= 0.
const DefaultCacheSize = 64

type cacheEntry struct {
	container []byte
	text      string
}

// DecodeCache remembers the text of recently decoded containers, keyed by
// their content. It is safe for concurrent use.
//
// Decoding is a pure function of the container bytes, so a hit is returned
// without parsing or expanding anything.
type DecodeCache struct {
	entries *lru.Cache[uint64, cacheEntry]
}

// NewDecodeCache creates a cache holding up to size decoded containers.
func NewDecodeCache(size int) (*DecodeCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[uint64, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &DecodeCache{entries: entries}, nil
}

// DecodeString behaves like the package-level DecodeString but consults the
// cache first. Failed decodes are not cached.
func (c *DecodeCache) DecodeString(data []byte) (string, error) {
	key := xxhash.Sum64(data)
	if e, ok := c.entries.Get(key); ok && bytes.Equal(e.container, data) {
		return e.text, nil
	}

	text, err := DecodeString(data)
	if err != nil {
		return "", err
	}
	c.entries.Add(key, cacheEntry{container: bytes.Clone(data), text: text})
	return text, nil
}

// Len returns the number of cached containers.
func (c *DecodeCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached container.
func (c *DecodeCache) Purge() {
	c.entries.Purge()
}
