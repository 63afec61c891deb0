// -----------------------------------------------------------------------------
// Memory Cache Driver
// -----------------------------------------------------------------------------
// In-memory cache implementation (non-persistent).
//
// Özellikler:
// - Thread-safe (sync.RWMutex)
// - TTL support (okumada lazy expiry + periyodik temizlik)
// - Değerler kopyalanarak saklanır ve döner
//
// Sınırlamalar:
// - Non-persistent (restart'ta kaybolur)
// - Single-process (distributed değil)
// -----------------------------------------------------------------------------

package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ceopag/eloquence-base/pkg/logger"
)

// MemoryCacheEntry, memory'de saklanan veri yapısı.
type MemoryCacheEntry struct {
	Value     []byte
	ExpiresAt time.Time // zero value = süresiz
}

// IsExpired, entry'nin expire olup olmadığını kontrol eder.
func (e *MemoryCacheEntry) IsExpired() bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(e.ExpiresAt)
}

// MemoryCache, in-memory cache implementation.
type MemoryCache struct {
	store  map[string]*MemoryCacheEntry
	mu     sync.RWMutex
	logger *logger.Logger
	hits   atomic.Int64
	misses atomic.Int64
	stop   chan struct{}
	once   sync.Once
}

// NewMemoryCache, yeni bir Memory cache oluşturur ve arka planda expired
// entry temizliğini başlatır. Close ile durdurulur.
//
//	store := cache.NewMemoryCache(logger.Default())
//	defer store.Close()
func NewMemoryCache(log *logger.Logger) *MemoryCache {
	if log == nil {
		log = logger.Default()
	}
	mc := &MemoryCache{
		store:  make(map[string]*MemoryCacheEntry),
		logger: log,
		stop:   make(chan struct{}),
	}

	go mc.startGarbageCollection(5 * time.Minute)

	log.Debug().Str("driver", DriverMemory).Msg("cache started")
	return mc
}

// Get, cache'den veri okur.
func (m *MemoryCache) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, exists := m.store[key]
	m.mu.RUnlock()

	if !exists || entry.IsExpired() {
		m.misses.Add(1)
		return nil, false, nil
	}

	m.hits.Add(1)
	return append([]byte(nil), entry.Value...), true, nil
}

// Set, cache'e veri yazar.
func (m *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = &MemoryCacheEntry{
		Value:     append([]byte(nil), value...),
		ExpiresAt: expiresAt,
	}
	return nil
}

// Delete, cache'den veri siler.
func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, key)
	return nil
}

// Has, key'in varlığını kontrol eder.
func (m *MemoryCache) Has(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.store[key]
	return exists && !entry.IsExpired(), nil
}

// Remember, cache'den okur veya callback'i çalıştırıp cache'ler.
func (m *MemoryCache) Remember(key string, ttl time.Duration, callback func() ([]byte, error)) ([]byte, error) {
	if val, ok, _ := m.Get(key); ok {
		return val, nil
	}

	result, err := callback()
	if err != nil {
		return nil, err
	}

	if err := m.Set(key, result, ttl); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("remember: cache write failed")
	}
	return result, nil
}

// Flush, tüm cache'i temizler.
func (m *MemoryCache) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]*MemoryCacheEntry)
	m.logger.Debug().Str("driver", DriverMemory).Msg("cache flushed")
	return nil
}

// Stats, memory cache istatistiklerini döndürür.
func (m *MemoryCache) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	validCount := 0
	for _, entry := range m.store {
		if !entry.IsExpired() {
			validCount++
		}
	}

	return map[string]interface{}{
		"driver":       DriverMemory,
		"total_keys":   len(m.store),
		"valid_keys":   validCount,
		"expired_keys": len(m.store) - validCount,
		"hits":         m.hits.Load(),
		"misses":       m.misses.Load(),
	}
}

// Close, arka plan temizliğini durdurur. Birden fazla çağrılabilir.
func (m *MemoryCache) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryCache) startGarbageCollection(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanExpiredEntries()
		case <-m.stop:
			return
		}
	}
}

// cleanExpiredEntries, expired entry'leri siler ve silinen sayıyı döner.
func (m *MemoryCache) cleanExpiredEntries() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cleaned := 0
	for key, entry := range m.store {
		if entry.IsExpired() {
			delete(m.store, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Debug().Int("expired", cleaned).Msg("memory cache garbage collection")
	}
	return cleaned
}
