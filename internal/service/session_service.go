package service

import (
	"log"
	"sync"
	"time"

	"btebresults/internal/lookup"
	"btebresults/internal/models"
	"btebresults/internal/progress"
	"btebresults/internal/security"
)

// VisitorSession is the server-side state of one browser. It is kept in
// memory only; a restart forgets every visitor and logs every admin out.
type VisitorSession struct {
	ID        string
	CreatedAt time.Time

	// Lookups holds the newest result search of this browser
	Lookups *lookup.Board
	// Upload drives the progress bar of the running upload
	Upload *progress.Indicator

	mu       sync.Mutex
	lastSeen time.Time
	admin    *models.Session
	flash    *Flash
}

// Flash is a status message shown once, on the next page render
type Flash struct {
	Type    string // "success" or "error"
	Message string
	Details []string
}

// Admin returns the admin login of this visitor, or nil when not logged in
// or the login has expired
func (v *VisitorSession) Admin() *models.Session {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.admin == nil || v.admin.IsExpired() {
		return nil
	}
	admin := *v.admin
	return &admin
}

// IsAdmin reports whether this visitor holds a valid admin login
func (v *VisitorSession) IsAdmin() bool {
	return v.Admin() != nil
}

// SetFlash stores a message for the next page render, replacing any
// message not shown yet
func (v *VisitorSession) SetFlash(flash *Flash) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flash = flash
}

// TakeFlash returns the pending message, if any, and clears it
func (v *VisitorSession) TakeFlash() *Flash {
	v.mu.Lock()
	defer v.mu.Unlock()
	flash := v.flash
	v.flash = nil
	return flash
}

func (v *VisitorSession) setAdmin(s *models.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.admin = s
}

func (v *VisitorSession) clearAdmin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.admin = nil
}

func (v *VisitorSession) touch(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastSeen = now
}

func (v *VisitorSession) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

// SessionService keeps visitor sessions in memory
type SessionService struct {
	mu          sync.Mutex
	sessions    map[string]*VisitorSession
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionService creates a store that forgets visitors idle for longer
// than idleTimeout
func NewSessionService(idleTimeout time.Duration) *SessionService {
	return &SessionService{
		sessions:    make(map[string]*VisitorSession),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create starts a new visitor session
func (s *SessionService) Create() *VisitorSession {
	now := s.now()
	v := &VisitorSession{
		ID:        security.GenerateSessionID(),
		CreatedAt: now,
		Lookups:   lookup.NewBoard(),
		Upload:    progress.NewIndicator(),
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[v.ID] = v
	s.mu.Unlock()
	return v
}

// Get returns the session with id, or nil when it is unknown or idle-expired
func (s *SessionService) Get(id string) *VisitorSession {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	v, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	now := s.now()
	if v.idleSince(now) > s.idleTimeout {
		s.Delete(id)
		return nil
	}
	v.touch(now)
	return v
}

// Delete forgets a session and stops its upload indicator
func (s *SessionService) Delete(id string) {
	s.mu.Lock()
	v, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		v.Upload.Reset()
	}
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpiredSessions removes idle sessions and returns how many went
func (s *SessionService) CleanupExpiredSessions() int {
	now := s.now()

	s.mu.Lock()
	var expired []*VisitorSession
	for id, v := range s.sessions {
		if v.idleSince(now) > s.idleTimeout {
			expired = append(expired, v)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.Upload.Reset()
	}
	if len(expired) > 0 {
		log.Printf("Removed %d idle visitor sessions", len(expired))
	}
	return len(expired)
}
