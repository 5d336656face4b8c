package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rwreynolds/stampcollect/internal/database"
	"github.com/rwreynolds/stampcollect/internal/metrics"
	"github.com/rwreynolds/stampcollect/internal/models"
	"github.com/rwreynolds/stampcollect/internal/validation"
)

// Store is the persistence surface the service needs; *database.StampStore
// satisfies it.
type Store interface {
	LoadAll() (*models.StampCollection, error)
	Get(id int64) (models.Stamp, error)
	Insert(stamp models.Stamp) (int64, error)
	Update(id int64, stamp models.Stamp) error
	Delete(id int64) error
	Search(criteria models.SearchCriteria) ([]models.StampRecord, error)
	Statistics() (models.CollectionStats, error)
	DataVersion() (int64, error)
}

// DefaultSearchCacheSize is used when the configured size is not positive
const DefaultSearchCacheSize = 128

// StampService sits between the outer surfaces and the store. It caches
// search results, times every store call and keeps the collection gauges
// current after mutations.
//
// Other processes (stampctl next to the server) may write the same file.
// Every cache entry records the store's data version when it was filled and
// is only served while that version is unchanged.
type StampService struct {
	store Store
	log   *zap.Logger

	searchCache *lru.Cache[string, cachedSearch]

	// generation is bumped on every mutation so that a search which started
	// before the mutation does not repopulate the cache with stale rows.
	mu          sync.Mutex
	generation  uint64
	lastVersion int64
}

type cachedSearch struct {
	version int64
	records []models.StampRecord
}

// NewStampService creates a new stamp service
func NewStampService(store Store, cacheSize int, log *zap.Logger) (*StampService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultSearchCacheSize
	}

	cache, err := lru.New[string, cachedSearch](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}

	return &StampService{
		store:       store,
		log:         log,
		searchCache: cache,
	}, nil
}

func (s *StampService) LoadAll() (*models.StampCollection, error) {
	defer s.observe("load_all", time.Now())

	collection, err := s.store.LoadAll()
	s.countError("load_all", err)
	return collection, err
}

func (s *StampService) Get(id int64) (models.Stamp, error) {
	defer s.observe("get", time.Now())

	stamp, err := s.store.Get(id)
	s.countError("get", err)
	return stamp, err
}

// Value returns the catalog value of a single record
func (s *StampService) Value(id int64) (decimal.Decimal, error) {
	stamp, err := s.Get(id)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return stamp.TotalValue(), nil
}

// Search serves repeated criteria from the cache until the next mutation,
// whether made through this service or by another connection to the file.
// The returned records are copies and may be modified freely.
func (s *StampService) Search(criteria models.SearchCriteria) ([]models.StampRecord, error) {
	version, versionErr := s.dataVersion()

	key := cacheKey(criteria)
	if versionErr == nil {
		if cached, ok := s.searchCache.Get(key); ok && cached.version == version {
			metrics.SearchCacheHits.Inc()
			return cloneRecords(cached.records), nil
		}
	}
	metrics.SearchCacheMisses.Inc()

	gen := s.currentGeneration()

	start := time.Now()
	results, err := s.store.Search(criteria)
	s.observe("search", start)
	if err != nil {
		s.countError("search", err)
		return nil, err
	}

	// Without a version there is nothing to validate an entry against later
	if versionErr == nil {
		s.mu.Lock()
		if gen == s.generation {
			s.searchCache.Add(key, cachedSearch{version: version, records: cloneRecords(results)})
		}
		s.mu.Unlock()
	}

	return results, nil
}

// dataVersion reads the store's data version. A change since the last
// reading means another connection committed: the cache is dropped and the
// gauges are recomputed.
func (s *StampService) dataVersion() (int64, error) {
	version, err := s.store.DataVersion()
	if err != nil {
		s.countError("data_version", err)
		s.log.Warn("read data version failed, bypassing search cache", zap.Error(err))
		return 0, err
	}

	s.mu.Lock()
	changed := s.lastVersion != 0 && version != s.lastVersion
	s.lastVersion = version
	if changed {
		s.generation++
		s.searchCache.Purge()
	}
	s.mu.Unlock()

	if changed {
		s.log.Info("database changed by another connection", zap.Int64("data_version", version))
		s.RefreshMetrics()
	}
	return version, nil
}

func (s *StampService) Insert(stamp models.Stamp) (int64, error) {
	start := time.Now()
	id, err := s.store.Insert(stamp)
	s.observe("insert", start)
	if err != nil {
		s.countError("insert", err)
		s.log.Error("insert stamp failed", zap.String("scott_number", stamp.ScottNumber), zap.Error(err))
		return 0, err
	}

	s.invalidate()
	s.log.Info("stamp inserted", zap.Int64("id", id), zap.String("scott_number", stamp.ScottNumber))
	s.RefreshMetrics()
	return id, nil
}

func (s *StampService) Update(id int64, stamp models.Stamp) error {
	start := time.Now()
	err := s.store.Update(id, stamp)
	s.observe("update", start)
	if err != nil {
		s.countError("update", err)
		s.log.Error("update stamp failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.invalidate()
	s.log.Info("stamp updated", zap.Int64("id", id), zap.String("scott_number", stamp.ScottNumber))
	s.RefreshMetrics()
	return nil
}

func (s *StampService) Delete(id int64) error {
	start := time.Now()
	err := s.store.Delete(id)
	s.observe("delete", start)
	if err != nil {
		s.countError("delete", err)
		s.log.Error("delete stamp failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.invalidate()
	s.log.Info("stamp deleted", zap.Int64("id", id))
	s.RefreshMetrics()
	return nil
}

// Import validates every request before writing anything, so one bad row
// rejects the whole batch. Valid batches are inserted in order; if the store
// fails part way, the ids written so far are returned with the error.
func (s *StampService) Import(requests []models.StampRequest) ([]int64, error) {
	stamps := make([]models.Stamp, 0, len(requests))
	for i, req := range requests {
		stamp, err := validation.ToStamp(req)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		stamps = append(stamps, stamp)
	}

	ids := make([]int64, 0, len(stamps))
	defer func() {
		if len(ids) > 0 {
			s.invalidate()
			s.RefreshMetrics()
		}
	}()

	for _, stamp := range stamps {
		start := time.Now()
		id, err := s.store.Insert(stamp)
		s.observe("insert", start)
		if err != nil {
			s.countError("insert", err)
			s.log.Error("import stopped", zap.Int("imported", len(ids)), zap.Int("total", len(stamps)), zap.Error(err))
			return ids, err
		}
		ids = append(ids, id)
	}

	s.log.Info("stamps imported", zap.Int("count", len(ids)))
	return ids, nil
}

// Statistics computes the collection summary and publishes it to the gauges
func (s *StampService) Statistics() (models.CollectionStats, error) {
	start := time.Now()
	stats, err := s.store.Statistics()
	s.observe("statistics", start)
	if err != nil {
		s.countError("statistics", err)
		return models.CollectionStats{}, err
	}

	metrics.SetCollectionStats(stats)
	return stats, nil
}

// RefreshMetrics recomputes the collection gauges. Failures are logged only;
// a stale gauge must not fail the mutation that triggered the refresh.
func (s *StampService) RefreshMetrics() {
	if _, err := s.Statistics(); err != nil {
		s.log.Warn("refresh collection metrics failed", zap.Error(err))
	}
}

func (s *StampService) invalidate() {
	s.mu.Lock()
	s.generation++
	s.searchCache.Purge()
	s.mu.Unlock()
}

func (s *StampService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *StampService) observe(op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *StampService) countError(op string, err error) {
	if err == nil || errors.Is(err, database.ErrStampNotFound) {
		return
	}
	metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
}

func cloneRecords(records []models.StampRecord) []models.StampRecord {
	out := make([]models.StampRecord, len(records))
	for i, r := range records {
		out[i] = models.StampRecord{ID: r.ID, Stamp: r.Stamp.Clone()}
	}
	return out
}

// cacheKey renders every criterion, including unset bounds, so two criteria
// share a key only when the store would run the same query for both.
func cacheKey(c models.SearchCriteria) string {
	bound := func(p *int) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *p)
	}
	return fmt.Sprintf("d=%q|s=%q|c=%q|from=%s|to=%s|used=%t|want=%t",
		c.Description, c.ScottNumber, c.Country,
		bound(c.YearFrom), bound(c.YearTo), c.UsedOnly, c.WantList)
}
