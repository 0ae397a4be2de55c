package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ambubot-be/pkg/intake"
)

// SessionRepository keeps intake sessions in process memory. Sessions expire
// after ttl of inactivity; Save refreshes the expiry.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Save stores a copy so later mutations by the caller are not visible to readers.
func (r *SessionRepository) Save(session *intake.Session) {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*intake.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*intake.Session).Clone(), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
