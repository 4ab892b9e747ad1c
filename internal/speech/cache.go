package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// AudioCache is a two-tier (memory, then disk) cache of synthesized
// replies. Fixed lines such as the welcome and the special-requests prompt
// repeat on every order, so they are synthesized once per voice.
//
// The key is sha256(voice + ":" + text). The memory tier holds at most
// maxEntries clips and evicts the oldest insert first. The disk tier is
// always read when cacheDir is set and written only when diskWrite is true.
type AudioCache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	order      []string // insertion order for eviction
	maxEntries int
	voice      string
	cacheDir   string
	diskWrite  bool
	hits       int64
	misses     int64
	log        *logger.Logger
}

// NewAudioCache creates an audio cache. An empty cacheDir disables the
// disk tier; maxEntries <= 0 means unbounded.
func NewAudioCache(voice, cacheDir string, diskWrite bool, maxEntries int, log *logger.Logger) *AudioCache {
	c := &AudioCache{
		entries:    make(map[string][]byte),
		maxEntries: maxEntries,
		voice:      voice,
		cacheDir:   cacheDir,
		diskWrite:  diskWrite,
		log:        log,
	}
	if cacheDir != "" && diskWrite {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", cacheDir, err)
		}
	}
	return c
}

// Get returns cached audio for text. Disk hits are promoted to memory.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	key := c.hashKey(text)

	c.mu.Lock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
		c.mu.Unlock()
		c.log.Debug("cache hit (mem): %s", truncate(text, 40))
		return data, true
	}
	c.mu.Unlock()

	if c.cacheDir != "" {
		if data, err := os.ReadFile(c.diskPath(key)); err == nil {
			c.mu.Lock()
			c.storeLocked(key, data)
			c.hits++
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s", truncate(text, 40))
			return data, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores audio for text in memory and, if enabled, on disk.
func (c *AudioCache) Put(text string, audio []byte) {
	key := c.hashKey(text)

	c.mu.Lock()
	c.storeLocked(key, audio)
	c.mu.Unlock()

	if c.cacheDir != "" && c.diskWrite {
		path := c.diskPath(key)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			c.log.Error("cache: disk write failed for %s: %v", path, err)
		}
	}
}

// Has reports whether audio for text is cached in either tier.
func (c *AudioCache) Has(text string) bool {
	key := c.hashKey(text)
	c.mu.Lock()
	_, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return true
	}
	if c.cacheDir == "" {
		return false
	}
	_, err := os.Stat(c.diskPath(key))
	return err == nil
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// storeLocked must be called with c.mu held.
func (c *AudioCache) storeLocked(key string, audio []byte) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = audio
	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *AudioCache) hashKey(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) diskPath(key string) string {
	return filepath.Join(c.cacheDir, key+".wav")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
