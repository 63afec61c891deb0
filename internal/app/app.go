// -----------------------------------------------------------------------------
// Application Wiring
// -----------------------------------------------------------------------------
// Config'ten logger, veritabanı bağlantısı, grammar, model registry, plan
// cache'i ve sorgu fabrikasını kurar. Bağımlılıklar açıkça oluşturulur ve
// App üzerinde taşınır; Close hepsini ters sırada kapatır.
// -----------------------------------------------------------------------------

package app

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ceopag/eloquence-base/internal/config"
	"github.com/ceopag/eloquence-base/internal/models"
	"github.com/ceopag/eloquence-base/pkg/cache"
	"github.com/ceopag/eloquence-base/pkg/database"
	"github.com/ceopag/eloquence-base/pkg/logger"
	"github.com/ceopag/eloquence-base/pkg/orm"
	"github.com/ceopag/eloquence-base/pkg/orm/gormjoin"
	"github.com/ceopag/eloquence-base/pkg/orm/relations"
	"github.com/ceopag/eloquence-base/pkg/orm/schema"
)

// App, çalışan uygulamanın bağımlılıklarını tutar.
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *sql.DB
	Grammar database.Grammar
	Models  *orm.Registry
	Cache   cache.Cache          // cache.driver=none ise nil
	Plans   *relations.PlanCache // Cache nil ise nil

	closers []func() error
}

// New, config'e göre uygulamayı kurar. Hata durumunda o ana kadar açılan
// kaynaklar kapatılır.
//
//	cfg, _ := config.Load(config.WithFile("config/app.yaml"))
//	a, err := app.New(ctx, cfg)
//	defer a.Close()
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	a := &App{Config: cfg, Logger: log}
	if err := a.boot(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Str("cache", cfg.Cache.Driver).
		Int("models", len(a.Models.Names())).
		Msg("application ready")
	return a, nil
}

func newLogger(cfg config.LogConfig) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "app: log level %q", cfg.Level)
	}

	opts := []logger.Option{logger.WithLevel(level)}
	if cfg.File != "" {
		opts = append(opts, logger.WithFile(logger.DefaultRotate(cfg.File)))
	} else {
		opts = append(opts, logger.WithOutput(os.Stderr))
	}
	return logger.New(opts...), nil
}

func (a *App) boot(ctx context.Context) error {
	cfg := a.Config

	grammar, err := database.GrammarFor(cfg.DB.Driver)
	if err != nil {
		return err
	}
	a.Grammar = grammar

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Driver:          cfg.DB.Driver,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return errors.Wrap(err, "app: database")
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if a.Models, err = loadModels(cfg.Schema); err != nil {
		return err
	}

	store, err := a.newCache(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		a.Cache = store
		a.Plans = relations.NewPlanCache(store, a.Models, cfg.Cache.TTL,
			relations.WithCacheLogger(a.Logger.Named("plans")))
	}
	return nil
}

func loadModels(cfg config.SchemaConfig) (*orm.Registry, error) {
	if cfg.Path == "" {
		return models.New().Registry, nil
	}
	registry, err := schema.Load(cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "app: schema")
	}
	return registry, nil
}

func (a *App) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := a.Config
	log := a.Logger.Named("cache")

	switch cfg.Cache.Driver {
	case cache.DriverMemory:
		store := cache.NewMemoryCache(log)
		a.closers = append(a.closers, store.Close)
		return store, nil

	case cache.DriverRedis:
		rc := cache.DefaultRedisConfig()
		rc.Host = cfg.Redis.Host
		rc.Port = cfg.Redis.Port
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB

		client, err := cache.NewRedisClient(ctx, rc, log)
		if err != nil {
			return nil, errors.Wrap(err, "app: redis")
		}
		a.closers = append(a.closers, client.Close)
		return cache.NewRedisCache(client, log, cfg.Cache.Prefix), nil
	}
	return nil, nil
}

// Close, açılan kaynakları ters sırada kapatır. İlk hata döner.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Model, registry'den modeli bulur.
func (a *App) Model(name string) (*orm.Model, error) {
	return a.Models.Model(name)
}

// Query, model için relation join'lerini destekleyen yeni bir sorgu açar.
func (a *App) Query(model string) (*Query, error) {
	return a.QueryWith(model, relations.Aliases{})
}

// QueryWith, alias setiyle sorgu açar. FROM tablosu root niteleyicisiyle
// (self alias, yoksa root modelin alias'ı) yazılır.
//
//	q, _ := a.QueryWith("Event", relations.Aliases{}.WithSelf("e"))
//	q.Join("venue")
//	// SELECT * FROM `events` AS `e` INNER JOIN `venues` ON `e`.`venue_id` = `venues`.`id`
func (a *App) QueryWith(model string, aliases relations.Aliases) (*Query, error) {
	root, err := a.Model(model)
	if err != nil {
		return nil, err
	}

	qb := database.NewBuilder(a.DB, a.Grammar).Table(root.Table).As(aliases.Root(root))

	return &Query{
		QueryBuilder: qb,
		joiner:       relations.NewJoiner(qb, root, relations.WithAliases(aliases), relations.WithLogger(a.Logger.Named("joins"))),
		plans:        a.Plans,
	}, nil
}

// Query, QueryBuilder'ı relation path join'leriyle genişletir.
type Query struct {
	*database.QueryBuilder

	joiner *relations.Joiner
	plans  *relations.PlanCache
}

// Join, path'i INNER JOIN ile ekler.
func (q *Query) Join(path string) (*Query, error) {
	return q.JoinPath(path, database.InnerJoin)
}

// LeftJoin, path'i LEFT JOIN ile ekler.
func (q *Query) LeftJoin(path string) (*Query, error) {
	return q.JoinPath(path, database.LeftJoin)
}

// RightJoin, path'i RIGHT JOIN ile ekler.
func (q *Query) RightJoin(path string) (*Query, error) {
	return q.JoinPath(path, database.RightJoin)
}

// JoinPath, path'i verilen tipte ekler. Plan cache varsa derlenmiş plan
// oradan okunur.
func (q *Query) JoinPath(path string, joinType database.JoinType) (*Query, error) {
	var err error
	if q.plans != nil {
		_, err = q.plans.Join(q.joiner, path, joinType)
	} else {
		_, err = q.joiner.JoinPath(path, joinType)
	}
	return q, err
}

// Joiner, sorgunun relation planlayıcısı.
func (q *Query) Joiner() *relations.Joiner { return q.joiner }

// Gorm, sorgunun JOIN listesini bir GORM sorgusuna uygular.
//
//	var rows []Event
//	q.Gorm(gdb.Table("events")).Find(&rows)
func (q *Query) Gorm(db *gorm.DB) *gorm.DB {
	return gormjoin.Apply(db, q.Joins())
}
