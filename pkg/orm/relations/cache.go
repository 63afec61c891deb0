// -----------------------------------------------------------------------------
// Plan Cache
// -----------------------------------------------------------------------------
// Derlenmiş planları cache.Cache (memory veya Redis) üzerinde saklar. Aynı
// root, path, join tipi ve alias seti için plan bir kez derlenir; sonraki
// isteklerde decode edilip sorguya merge edilir.
//
// Cache hataları join'i asla başarısız yapmaz: loglanır ve plan yeniden
// derlenir.
// -----------------------------------------------------------------------------

package relations

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ceopag/eloquence-base/pkg/cache"
	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/logger"
	"github.com/ceopag/eloquence-base/pkg/orm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PlanCache, derlenmiş join planlarını cache'ler.
type PlanCache struct {
	store  cache.Cache
	models *orm.Registry
	ttl    time.Duration
	logger *logger.Logger
}

// CacheOption, PlanCache ayarı.
type CacheOption func(*PlanCache)

// WithCacheLogger, PlanCache'in logger'ını belirler.
func WithCacheLogger(log *logger.Logger) CacheOption {
	return func(c *PlanCache) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewPlanCache, yeni bir plan cache oluşturur. models, decode edilen
// planların hedef modelini bulmak için kullanılır.
//
//	plans := relations.NewPlanCache(cache.NewMemoryCache(log), registry, 10*time.Minute)
//	venue, err := plans.Join(joiner, "venue", database.InnerJoin)
func NewPlanCache(store cache.Cache, models *orm.Registry, ttl time.Duration, opts ...CacheOption) *PlanCache {
	c := &PlanCache{
		store:  store,
		models: models,
		ttl:    ttl,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key, plan'ın cache key'ini döner.
//
//	joins:Event:INNER:venue.sections:
//	joins:Event:LEFT:tags:self=e
func (c *PlanCache) Key(j *Joiner, path string, joinType database.JoinType) string {
	return fmt.Sprintf("joins:%s:%s:%s:%s", j.root.Name, joinType, path, j.aliases.Fingerprint())
}

// Join, planı cache'den alıp sorguya merge eder; cache'de yoksa derler,
// saklar ve merge eder. Derleme hatasında Joiner.JoinPath'e düşer; böylece
// hata ve kısmen eklenen JOIN'ler cache'siz çağrıyla aynıdır.
func (c *PlanCache) Join(j *Joiner, path string, joinType database.JoinType) (*orm.Model, error) {
	key := c.Key(j, path, joinType)

	if plan, ok := c.load(key); ok {
		j.Merge(plan)
		return plan.Model(), nil
	}

	plan, err := j.Compile(path, joinType)
	if err != nil {
		return j.JoinPath(path, joinType)
	}

	c.save(key, plan)
	j.Merge(plan)
	return plan.Model(), nil
}

// Forget, plan'ı cache'den siler.
func (c *PlanCache) Forget(j *Joiner, path string, joinType database.JoinType) error {
	return c.store.Delete(c.Key(j, path, joinType))
}

func (c *PlanCache) load(key string) (*Plan, bool) {
	data, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("plan cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("plan cache entry is corrupt")
		return nil, false
	}

	related, err := c.models.Model(plan.Related)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("plan cache entry references unknown model")
		return nil, false
	}
	plan.related = related

	c.logger.Debug().Str("key", key).Msg("plan cache hit")
	return &plan, true
}

func (c *PlanCache) save(key string, plan *Plan) {
	data, err := json.Marshal(plan)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("plan encode failed")
		return
	}
	if err := c.store.Set(key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("plan cache write failed")
	}
}
