package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mini-maxit/runner/internal/logger"
	"github.com/mini-maxit/runner/pkg/constants"
	"github.com/mini-maxit/runner/utils"
	"go.uber.org/zap"
)

type CacheEntry struct {
	FilePath       string    `json:"file_path"`
	CachedAt       time.Time `json:"cached_at"`
	ETag           string    `json:"etag"`
	OriginalKey    string    `json:"original_key"`
	OriginalBucket string    `json:"original_bucket"`
}

type CacheMetadata struct {
	Entries map[string]CacheEntry `json:"entries"` // key is hash of bucket+object key
}

// FileCache keeps local copies of remote objects. Entries expire after the TTL and the oldest
// entry is evicted when the cache is full. Safe for concurrent use.
type FileCache interface {
	GetCachedFile(bucket, key string) (CacheEntry, bool)
	CacheFile(bucket, key, etag, sourcePath string) error
	Invalidate(bucket, key string)
	CleanExpiredCache() error
	InitCache() error
}

type fileCache struct {
	logger       *zap.SugaredLogger
	cacheDirPath string
	ttl          time.Duration
	maxEntries   int

	mu       sync.Mutex
	metadata *CacheMetadata
}

func NewFileCache(cacheDirPath string) FileCache {
	logger := logger.NewNamedLogger("cache")
	return &fileCache{
		logger:       logger,
		cacheDirPath: cacheDirPath,
		ttl:          time.Duration(constants.CacheTTLHours) * time.Hour,
		maxEntries:   constants.CacheMaxEntries,
		metadata:     &CacheMetadata{Entries: make(map[string]CacheEntry)},
	}
}

// InitCache initializes the cache directory.
func (c *fileCache) InitCache() error {
	if err := os.MkdirAll(c.cacheDirPath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := c.loadMetadata(); err != nil {
		c.logger.Warnf("Failed to load cache metadata, starting empty: %v", err)
	}

	if err := c.CleanExpiredCache(); err != nil {
		c.logger.Warnf("Failed to clean expired cache: %v", err)
	}

	return nil
}

func (c *fileCache) GetCachedFile(bucket, key string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := c.generateKey(bucket, key)
	entry, exists := c.metadata.Entries[hash]
	if !exists {
		return CacheEntry{}, false
	}

	// Check if cache is expired.
	if time.Since(entry.CachedAt) > c.ttl {
		c.logger.Debugf("Cache expired for %s", key)
		c.removeEntry(hash, entry)
		return CacheEntry{}, false
	}

	// Check if file still exists.
	if _, err := os.Stat(entry.FilePath); os.IsNotExist(err) {
		c.logger.Debugf("Cached file no longer exists: %s", entry.FilePath)
		delete(c.metadata.Entries, hash)
		return CacheEntry{}, false
	}

	c.logger.Debugf("Cache hit for %s", key)
	return entry, true
}

func (c *fileCache) CacheFile(bucket, key, etag, sourcePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := c.generateKey(bucket, key)

	// Ensure cache directory exists.
	if err := os.MkdirAll(c.cacheDirPath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Evict oldest entries if cache is full and this is a new entry
	if _, exists := c.metadata.Entries[hash]; !exists {
		if len(c.metadata.Entries) >= c.maxEntries {
			c.evictOldestEntry()
		}
	}

	cacheFilePath := filepath.Join(c.cacheDirPath, c.generateCacheFileName(bucket, key))

	if err := utils.CopyFile(sourcePath, cacheFilePath); err != nil {
		return fmt.Errorf("failed to copy file to cache: %w", err)
	}

	c.metadata.Entries[hash] = CacheEntry{
		FilePath:       cacheFilePath,
		CachedAt:       time.Now(),
		ETag:           etag,
		OriginalKey:    key,
		OriginalBucket: bucket,
	}

	c.logger.Debugf("Cached file %s", key)
	return c.saveMetadata()
}

func (c *fileCache) Invalidate(bucket, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hash := c.generateKey(bucket, key)
	if entry, exists := c.metadata.Entries[hash]; exists {
		c.removeEntry(hash, entry)
		if err := c.saveMetadata(); err != nil {
			c.logger.Warnf("Failed to save cache metadata: %v", err)
		}
	}
}

// CleanExpiredCache removes expired cache entries and orphaned files.
func (c *fileCache) CleanExpiredCache() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	cleaned := 0

	for hash, entry := range c.metadata.Entries {
		if now.Sub(entry.CachedAt) > c.ttl {
			c.removeEntry(hash, entry)
			cleaned++
		}
	}

	if cleaned > 0 {
		c.logger.Infof("Cleaned %d expired cache entries", cleaned)
		return c.saveMetadata()
	}

	return nil
}

func (c *fileCache) metadataPath() string {
	return filepath.Join(c.cacheDirPath, constants.CacheMetadataFile)
}

// loadMetadata restores entries written by a previous process. A missing file is not an error.
func (c *fileCache) loadMetadata() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var metadata CacheMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return err
	}
	if metadata.Entries == nil {
		metadata.Entries = make(map[string]CacheEntry)
	}
	c.metadata = &metadata
	return nil
}

// saveMetadata must be called with c.mu held.
func (c *fileCache) saveMetadata() error {
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(c.metadataPath(), data, 0o644)
}

// removeEntry must be called with c.mu held.
func (c *fileCache) removeEntry(hash string, entry CacheEntry) {
	if err := os.Remove(entry.FilePath); err != nil && !os.IsNotExist(err) {
		c.logger.Warnf("Failed to remove cache file %s: %v", entry.FilePath, err)
	}
	delete(c.metadata.Entries, hash)
}

func (c *fileCache) evictOldestEntry() {
	if len(c.metadata.Entries) == 0 {
		return
	}

	var oldestHash string
	var oldestTime time.Time
	first := true

	for hash, entry := range c.metadata.Entries {
		if first || entry.CachedAt.Before(oldestTime) {
			oldestHash = hash
			oldestTime = entry.CachedAt
			first = false
		}
	}

	if entry, exists := c.metadata.Entries[oldestHash]; exists {
		c.removeEntry(oldestHash, entry)
		c.logger.Debugf("Evicted oldest cache entry: %s", entry.OriginalKey)
	}
}

func (c *fileCache) generateKey(bucket, key string) string {
	data := fmt.Sprintf("%s:%s", bucket, key)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func (c *fileCache) generateCacheFileName(bucket, key string) string {
	return c.generateKey(bucket, key) + filepath.Ext(key)
}
