package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"devart/internal/style"
	"devart/internal/stylelock"
)

type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Asset is one generated image kept by a session.
type Asset struct {
	ID             string        `json:"id"`
	ImageURL       string        `json:"imageUrl"`
	TransparentURL string        `json:"transparentUrl,omitempty"`
	Prompt         string        `json:"prompt"`
	UserPrompt     string        `json:"userPrompt"`
	Subject        string        `json:"subject,omitempty"`
	Seed           int64         `json:"seed,omitempty"`
	StyleParams    *style.Params `json:"styleParams,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func NewAssetID() string {
	return uuid.NewString()
}

// Session holds everything one chat accumulates. Assets are newest first.
type Session struct {
	ID           string
	History      []HistoryMessage
	Style        stylelock.Context
	Assets       []Asset
	LastActivity time.Time
}

type Options struct {
	MaxMessages int
	MaxAssets   int
}

type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	maxHistory int
	maxAssets  int
}

func NewStore(opts Options) *Store {
	maxHistory := opts.MaxMessages
	if maxHistory <= 0 {
		maxHistory = 20
	}
	maxAssets := opts.MaxAssets
	if maxAssets <= 0 {
		maxAssets = 200
	}

	return &Store{
		sessions:   make(map[string]*Session),
		maxHistory: maxHistory,
		maxAssets:  maxAssets,
	}
}

// NewChat clears the history and unlocks the style. Assets are kept.
func (s *Store) NewChat(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.History = nil
		sess.Style = stylelock.Reduce(sess.Style, stylelock.Unlock{})
		sess.LastActivity = time.Now()
	}
}

// Snapshot returns a copy of the session, creating it when missing.
func (s *Store) Snapshot(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.LastActivity = time.Now()
	return sess.clone()
}

func (s *Store) Append(id string, msgs ...HistoryMessage) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.LastActivity = time.Now()

	sess.History = append(sess.History, msgs...)
	if len(sess.History) > s.maxHistory {
		sess.History = sess.History[len(sess.History)-s.maxHistory:]
	}
}

// AddAssets records assets as if added one at a time, so the last one given
// becomes the newest. The oldest assets drop off past the limit.
func (s *Store) AddAssets(id string, assets ...Asset) {
	if len(assets) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.LastActivity = time.Now()

	next := make([]Asset, 0, len(assets)+len(sess.Assets))
	for i := len(assets) - 1; i >= 0; i-- {
		next = append(next, assets[i])
	}
	next = append(next, sess.Assets...)
	if len(next) > s.maxAssets {
		next = next[:s.maxAssets]
	}
	sess.Assets = next
}

func (s *Store) Asset(id, assetID string) (Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Asset{}, false
	}
	for _, a := range sess.Assets {
		if a.ID == assetID {
			return cloneAsset(a), true
		}
	}
	return Asset{}, false
}

// UpdateAsset applies fn to the stored asset. It reports whether the asset
// exists.
func (s *Store) UpdateAsset(id, assetID string, fn func(*Asset)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	for i := range sess.Assets {
		if sess.Assets[i].ID == assetID {
			fn(&sess.Assets[i])
			return true
		}
	}
	return false
}

// Style applies ev to the session's style context and returns the result.
func (s *Store) Style(id string, ev stylelock.Event) stylelock.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.LastActivity = time.Now()
	sess.Style = stylelock.Reduce(sess.Style, ev)
	return sess.Style
}

func (s *Store) getOrCreateLocked(id string) *Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	sess := &Session{
		ID:           id,
		LastActivity: time.Now(),
	}
	s.sessions[id] = sess
	return sess
}

func (s *Session) clone() Session {
	out := *s
	out.History = append([]HistoryMessage(nil), s.History...)
	out.Assets = make([]Asset, len(s.Assets))
	for i, a := range s.Assets {
		out.Assets[i] = cloneAsset(a)
	}
	if s.Style.Params != nil {
		p := s.Style.Params.Normalize()
		out.Style.Params = &p
	}
	return out
}

func cloneAsset(a Asset) Asset {
	if a.StyleParams != nil {
		p := a.StyleParams.Normalize()
		a.StyleParams = &p
	}
	return a
}
