package assets

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
)

// DefaultCacheSize is the number of outlines kept by NewManager(nil).
const DefaultCacheSize = 16

// HashGeometry hashes the position buffer and index of g. Normals are not
// part of the key because extraction recomputes them.
func HashGeometry(g *geometry.Geometry) uint64 {
	d := xxhash.New()
	var buf [4]byte

	if pos := g.Attribute(geometry.AttrPosition); pos != nil {
		for _, v := range pos.Array {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			_, _ = d.Write(buf[:])
		}
	}

	// Separates an indexed mesh from a flat one with the same positions.
	_, _ = d.WriteString("|index|")
	for _, idx := range g.Index {
		binary.LittleEndian.PutUint32(buf[:], idx)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Cache is a bounded in-memory cache of extracted outlines. When full, the
// oldest entry is evicted first.
type Cache struct {
	capacity int
	data     map[uint64]*geometry.Geometry
	order    []uint64
	mu       sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache holding at most capacity outlines.
// A capacity below 1 is treated as 1.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(capacity, 1),
		data:     make(map[uint64]*geometry.Geometry),
	}
}

// Get retrieves an outline from cache.
func (c *Cache) Get(key uint64) (*geometry.Geometry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return g, ok
}

// Put stores an outline, evicting the oldest entries beyond capacity.
func (c *Cache) Put(key uint64, g *geometry.Geometry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; ok {
		c.data[key] = g
		return
	}
	c.data[key] = g
	c.order = append(c.order, key)

	for len(c.order) > c.capacity {
		delete(c.data, c.order[0])
		c.order = c.order[1:]
	}
}

// Len returns the number of cached outlines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[uint64]*geometry.Geometry)
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
