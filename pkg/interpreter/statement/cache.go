package statement

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of parsed statements kept by a Cache when no
// size is given.
const DefaultCacheSize = 128

// Cache keeps recently parsed statements keyed by their source line. Only
// successfully parsed lines are cached.
type Cache struct {
	lines *lru.Cache
}

// NewCache creates a new Cache of the given size. Non-positive size means
// DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create statement cache: %w", err)
	}
	return &Cache{lines: c}, nil
}

// Parse is like the package-level Parse, but returns the cached statement for
// lines seen before.
func (c *Cache) Parse(line string) (Statement, error) {
	if s, ok := c.lines.Get(line); ok {
		return s.(Statement), nil
	}
	s, err := Parse(line)
	if err != nil {
		return nil, err
	}
	c.lines.Add(line, s)
	return s, nil
}

// Len returns the number of cached statements.
func (c *Cache) Len() int {
	return c.lines.Len()
}
