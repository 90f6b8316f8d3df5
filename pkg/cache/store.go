package cache

import (
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Sentinel results for Get. A miss and an expired entry are distinct: an
// expired entry proves the key was fetched before, which callers may use to
// decide between "never seen" and "stale".
var (
	ErrMiss    = errors.New("cache: miss")
	ErrExpired = errors.New("cache: expired")
)

// Config holds configuration for a cache Store.
type Config struct {
	// Dir is the directory where entries are stored.
	Dir string

	// MaxEntries caps how many entries are kept; the least recently used
	// ones are evicted past it. Default: 256.
	MaxEntries int

	// DefaultTTL applies to Put. Zero or negative means entries never
	// expire by time.
	DefaultTTL time.Duration

	// CleanupInterval is how often the background sweep removes expired
	// entries. Default: 5 minutes.
	CleanupInterval time.Duration
}

// entryMeta is the sidecar persisted next to each payload. Payloads land in
// {hash}.json, metadata in {hash}.meta, both plain JSON so a cache directory
// can be inspected with standard tools.
type entryMeta struct {
	Key        string    `json:"key"`
	SavedAt    time.Time `json:"saved_at"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"` // zero = never
	LastAccess time.Time `json:"last_access"`
}

func (m entryMeta) expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && now.After(m.ExpiresAt)
}

// lruEntry is the value stored in each list.Element.
type lruEntry struct {
	hash string
	key  string
}

// EntryInfo describes a cached entry without loading its payload.
type EntryInfo struct {
	Key       string
	SavedAt   time.Time
	ExpiresAt time.Time
	Size      int64
}

// Store is a disk-backed key-value cache with count-based LRU eviction and
// TTL expiry. Writes are atomic via temp-file-then-rename, so a crash never
// leaves a torn payload behind.
type Store struct {
	cfg Config

	mu    sync.Mutex
	lru   *list.List               // front = most recently used
	items map[string]*list.Element // hash -> element carrying *lruEntry

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewStore opens a cache rooted at cfg.Dir, creating the directory when
// missing. Existing entries are scanned to rebuild the index, ordered by
// their recorded last access.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 256
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", cfg.Dir, err)
	}

	s := &Store{
		cfg:   cfg,
		lru:   list.New(),
		items: make(map[string]*list.Element),
		done:  make(chan struct{}),
	}
	if err := s.scanDir(); err != nil {
		return nil, fmt.Errorf("cache: scan directory: %w", err)
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s, nil
}

// Get returns the payload stored under key. ErrMiss means the key was never
// stored (or its files are gone); ErrExpired means it was stored but aged
// out, and the entry is removed on the way. A hit refreshes the entry's LRU
// position and its recorded last access.
func (s *Store) Get(key string) ([]byte, error) {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[h]
	if !ok {
		return nil, ErrMiss
	}

	meta, err := s.readMeta(h)
	if err != nil {
		s.removeLocked(h, elem)
		return nil, ErrMiss
	}
	if meta.expired(time.Now()) {
		s.removeLocked(h, elem)
		return nil, ErrExpired
	}

	data, err := os.ReadFile(s.dataPath(h))
	if err != nil {
		s.removeLocked(h, elem)
		return nil, ErrMiss
	}

	s.lru.MoveToFront(elem)
	// Persisting the access time is best effort; losing it only skews the
	// LRU order rebuilt after a restart.
	meta.LastAccess = time.Now()
	s.writeMeta(h, meta)

	return data, nil
}

// Stat describes the entry under key without reading its payload. The LRU
// order is left untouched.
func (s *Store) Stat(key string) (EntryInfo, error) {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[h]
	if !ok {
		return EntryInfo{}, ErrMiss
	}
	meta, err := s.readMeta(h)
	if err != nil {
		s.removeLocked(h, elem)
		return EntryInfo{}, ErrMiss
	}
	if meta.expired(time.Now()) {
		s.removeLocked(h, elem)
		return EntryInfo{}, ErrExpired
	}

	info := EntryInfo{Key: meta.Key, SavedAt: meta.SavedAt, ExpiresAt: meta.ExpiresAt}
	if fi, err := os.Stat(s.dataPath(h)); err == nil {
		info.Size = fi.Size()
	}
	return info, nil
}

// Put stores value under key with the store's default TTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutTTL(key, value, s.cfg.DefaultTTL)
}

// PutTTL stores value under key. A ttl of zero means the entry never expires
// by time, only by LRU eviction or explicit deletion.
func (s *Store) PutTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)
	now := time.Now()

	meta := entryMeta{
		Key:        key,
		SavedAt:    now,
		LastAccess: now,
	}
	if ttl > 0 {
		meta.ExpiresAt = now.Add(ttl)
	}

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("cache: marshal meta for %q: %w", key, err)
	}

	if err := atomicWrite(s.dataPath(h), value, s.cfg.Dir); err != nil {
		return fmt.Errorf("cache: write data for %q: %w", key, err)
	}
	if err := atomicWrite(s.metaPath(h), metaBytes, s.cfg.Dir); err != nil {
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("cache: write meta for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[h]; ok {
		s.lru.MoveToFront(elem)
	} else {
		s.items[h] = s.lru.PushFront(&lruEntry{hash: h, key: key})
	}
	s.evictLocked()

	return nil
}

// Delete removes the entry under key. Deleting a missing key is not an
// error.
func (s *Store) Delete(key string) error {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[h]; ok {
		s.removeLocked(h, elem)
	}
	return nil
}

// Keys returns the keys of all non-expired entries, in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	keys := make([]string, 0, len(s.items))
	for h, elem := range s.items {
		meta, err := s.readMeta(h)
		if err != nil || meta.expired(now) {
			continue
		}
		keys = append(keys, elem.Value.(*lruEntry).key)
	}
	return keys
}

// Len returns the number of indexed entries, counting expired ones not yet
// swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Clear removes every entry and any leftover temp files.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: clear read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".meta") || strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.cfg.Dir, name))
		}
	}

	s.lru.Init()
	s.items = make(map[string]*list.Element)
	return nil
}

// Close stops the background sweep and waits for it to finish. Safe to call
// more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	return nil
}

func (s *Store) dataPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".json")
}

func (s *Store) metaPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".meta")
}

func (s *Store) readMeta(hash string) (entryMeta, error) {
	var m entryMeta
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	return m, nil
}

// writeMeta persists meta best effort. Caller must hold s.mu.
func (s *Store) writeMeta(hash string, m entryMeta) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = atomicWrite(s.metaPath(hash), data, s.cfg.Dir)
}

// removeLocked drops an entry from the index and deletes its files. Caller
// must hold s.mu.
func (s *Store) removeLocked(hash string, elem *list.Element) {
	s.lru.Remove(elem)
	delete(s.items, hash)
	_ = os.Remove(s.dataPath(hash))
	_ = os.Remove(s.metaPath(hash))
}

// evictLocked brings the entry count back under MaxEntries, dropping expired
// entries first and then the least recently used. Caller must hold s.mu.
func (s *Store) evictLocked() {
	if s.lru.Len() <= s.cfg.MaxEntries {
		return
	}

	now := time.Now()
	var expired []struct {
		hash string
		elem *list.Element
	}
	for h, elem := range s.items {
		meta, err := s.readMeta(h)
		if err != nil || meta.expired(now) {
			expired = append(expired, struct {
				hash string
				elem *list.Element
			}{h, elem})
		}
	}
	for _, r := range expired {
		s.removeLocked(r.hash, r.elem)
		if s.lru.Len() <= s.cfg.MaxEntries {
			return
		}
	}

	for s.lru.Len() > s.cfg.MaxEntries {
		back := s.lru.Back()
		if back == nil {
			break
		}
		s.removeLocked(back.Value.(*lruEntry).hash, back)
	}
}

// scanDir rebuilds the index from the sidecar files, ordered by recorded
// last access so eviction after a restart still drops the coldest entries.
func (s *Store) scanDir() error {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	type scanned struct {
		hash string
		meta entryMeta
	}
	var found []scanned

	now := time.Now()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".meta") {
			continue
		}
		hash := strings.TrimSuffix(name, ".meta")

		if _, err := os.Stat(s.dataPath(hash)); err != nil {
			// Orphaned sidecar.
			_ = os.Remove(s.metaPath(hash))
			continue
		}
		meta, err := s.readMeta(hash)
		if err != nil {
			_ = os.Remove(s.metaPath(hash))
			_ = os.Remove(s.dataPath(hash))
			continue
		}
		if meta.expired(now) {
			_ = os.Remove(s.metaPath(hash))
			_ = os.Remove(s.dataPath(hash))
			continue
		}
		found = append(found, scanned{hash: hash, meta: meta})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].meta.LastAccess.Before(found[j].meta.LastAccess)
	})
	for _, f := range found {
		s.items[f.hash] = s.lru.PushFront(&lruEntry{hash: f.hash, key: f.meta.Key})
	}

	// Runs before the store is shared, so no lock is needed.
	s.evictLocked()
	return nil
}

// cleanupLoop periodically sweeps expired entries.
func (s *Store) cleanupLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *Store) sweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []struct {
		hash string
		elem *list.Element
	}
	for h, elem := range s.items {
		meta, err := s.readMeta(h)
		if err != nil || meta.expired(now) {
			toRemove = append(toRemove, struct {
				hash string
				elem *list.Element
			}{h, elem})
		}
	}
	for _, r := range toRemove {
		s.removeLocked(r.hash, r.elem)
	}
}

// atomicWrite writes data to path via a temp file in tmpDir plus rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	success = true
	return nil
}
