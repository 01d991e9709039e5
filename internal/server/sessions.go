package server

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/refine"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// scanSession is one photo being scanned: the decoded image, the corners
// being refined, and the last detection outcome.
type scanSession struct {
	id      string
	path    string
	image   *image.NRGBA
	refine  *refine.Session
	created time.Time

	mu        sync.Mutex
	detection *detection.Result
}

func (ss *scanSession) setDetection(res *detection.Result) {
	ss.mu.Lock()
	ss.detection = res
	ss.mu.Unlock()
}

func (ss *scanSession) lastDetection() *detection.Result {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.detection
}

// sessionStore holds open sessions keyed by UUID. When full, opening a new
// session evicts the oldest.
type sessionStore struct {
	mu       sync.Mutex
	max      int
	sessions map[string]*scanSession
	order    []string
}

func newSessionStore(max int) *sessionStore {
	if max < 1 {
		max = 1
	}
	return &sessionStore{
		max:      max,
		sessions: make(map[string]*scanSession),
	}
}

// open registers a new session for img, starting from the full bounds. It
// returns the session and, if one had to make room, the evicted session.
func (st *sessionStore) open(path string, img *image.NRGBA) (*scanSession, *scanSession) {
	ss := &scanSession{
		id:      uuid.NewString(),
		path:    path,
		image:   img,
		refine:  refine.NewSession(geometry.FullBounds()),
		created: time.Now(),
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted *scanSession
	if len(st.sessions) >= st.max {
		oldest := st.order[0]
		evicted = st.sessions[oldest]
		delete(st.sessions, oldest)
		st.order = st.order[1:]
	}
	st.sessions[ss.id] = ss
	st.order = append(st.order, ss.id)
	return ss, evicted
}

// get returns the session with id or a not_found error.
func (st *sessionStore) get(id string) (*scanSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.sessions[id]
	if !ok {
		return nil, scanerr.NotFound(fmt.Sprintf("no open session %s", id), nil)
	}
	return ss, nil
}

// close removes the session with id. It reports the removed session and
// whether another open session still uses the same image path.
func (st *sessionStore) close(id string) (*scanSession, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.sessions[id]
	if !ok {
		return nil, false, scanerr.NotFound(fmt.Sprintf("no open session %s", id), nil)
	}
	delete(st.sessions, id)
	for i, v := range st.order {
		if v == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return ss, st.pathInUseLocked(ss.path), nil
}

// pathInUse reports whether any open session was loaded from path.
func (st *sessionStore) pathInUse(path string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pathInUseLocked(path)
}

func (st *sessionStore) pathInUseLocked(path string) bool {
	for _, ss := range st.sessions {
		if ss.path == path {
			return true
		}
	}
	return false
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
