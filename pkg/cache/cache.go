// -----------------------------------------------------------------------------
// Cache Interface
// -----------------------------------------------------------------------------
// Laravel-style cache interface tanımı.
//
// Değerler []byte olarak saklanır; serialization çağıranın sorumluluğundadır.
// Böylece memory ve Redis driver'ları aynı payload'u birebir döner.
//
// Driver'lar: Memory, Redis
// -----------------------------------------------------------------------------

package cache

import (
	"time"
)

// Cache, tüm cache driver'ların implement etmesi gereken interface.
//
// Örnek kullanım:
//
//	var store cache.Cache = cache.NewMemoryCache(log)
//	_ = store.Set("joins:Event:INNER:venue", payload, 10*time.Minute)
type Cache interface {
	// Get, cache'den veri okur. Key yoksa (nil, false, nil) döner.
	Get(key string) ([]byte, bool, error)

	// Set, cache'e veri yazar. TTL = 0 ise süresiz saklanır.
	Set(key string, value []byte, ttl time.Duration) error

	// Delete, cache'den veri siler. Key yoksa hata vermez.
	Delete(key string) error

	// Has, key'in cache'de olup olmadığını kontrol eder.
	Has(key string) (bool, error)

	// Remember, cache'den okur; bulamazsa callback'i çalıştırıp sonucu cache'ler.
	// Callback hata dönerse hiçbir şey yazılmaz.
	Remember(key string, ttl time.Duration, callback func() ([]byte, error)) ([]byte, error)

	// Flush, driver'a ait tüm key'leri temizler.
	Flush() error
}

// Stats, istatistik sunan driver'lar için opsiyonel interface.
type Stats interface {
	Stats() map[string]interface{}
}

// Driver adları (config: cache.driver).
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)
