package memory

import (
	"time"

	"mailfloww-be/pkg/workflow"

	"github.com/patrickmn/go-cache"
)

// RunRepository keeps recently completed workflow runs in memory so their
// audit trails can be fetched shortly after a reply was generated. Runs are
// not persisted; they expire.
type RunRepository struct {
	cache *cache.Cache
}

func NewRunRepository() *RunRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &RunRepository{
		cache: c,
	}
}

func (r *RunRepository) Save(runId string, state *workflow.State) {
	r.cache.Set(runId, state, cache.DefaultExpiration)
}

func (r *RunRepository) Get(runId string) (*workflow.State, bool) {
	if x, found := r.cache.Get(runId); found {
		return x.(*workflow.State), true
	}
	return nil, false
}

func (r *RunRepository) Delete(runId string) {
	r.cache.Delete(runId)
}
