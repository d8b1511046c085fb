package session

import (
	"sort"
	"strings"
	"sync"
)

const (
	triggerEvery = 7
	bufferWindow = 7
)

// chatSession is the mutable per-chat state. All access goes through its
// mutex; the message counter counts non-blank lines, not messages.
type chatSession struct {
	mu           sync.Mutex
	messageCount int
	participants map[string]struct{}
	buffer       []string
	cart         Cart
}

// Store owns every chat session, keyed by chat_id. Sessions are created
// lazily on first reference and live for the process lifetime; eviction is
// a deployment concern. All read-modify-write sequences are serialized per
// chat, so concurrent participants posting to the same chat are safe.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*chatSession
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*chatSession)}
}

func (s *Store) session(chatID string) *chatSession {
	s.mu.RLock()
	sess, ok := s.sessions[chatID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[chatID]; ok {
		return sess
	}
	sess = &chatSession{
		participants: make(map[string]struct{}),
		cart:         newCart(),
	}
	s.sessions[chatID] = sess
	return sess
}

// RecordMessage folds a posted message into the session: non-blank lines
// are appended to the buffer and counted, and the recommendation trigger is
// evaluated, all as one atomic unit. The trigger fires when the cumulative
// line count lands on or crosses a multiple of 7 within this batch, so a
// multi-line paste that jumps past a threshold still fires exactly once.
// On trigger, the returned query is the buffer's last 7 lines space-joined;
// a buffer that held at least 7 lines is consumed (cleared).
func (s *Store) RecordMessage(chatID, participant, message string) (count int, triggered bool, query string) {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	sess.participants[participant] = struct{}{}
	sess.buffer = append(sess.buffer, lines...)
	sess.messageCount += len(lines)

	count = sess.messageCount
	k := len(lines)
	triggered = count > 0 &&
		(count%triggerEvery == 0 || count/triggerEvery > (count-k)/triggerEvery)

	if triggered {
		window := sess.buffer
		if len(window) > bufferWindow {
			window = window[len(window)-bufferWindow:]
		}
		query = strings.Join(window, " ")
		if len(sess.buffer) >= bufferWindow {
			sess.buffer = nil
		}
	}
	return count, triggered, query
}

// Participants returns the number of distinct users seen in the chat.
func (s *Store) Participants(chatID string) int {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.participants)
}

// Cart returns a snapshot of the chat's cart.
func (s *Store) Cart(chatID string) Cart {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.clone()
}

// CartPlaceNames returns the cart's place names in a stable order, for
// excluding already-chosen places from recommendations.
func (s *Store) CartPlaceNames(chatID string) []string {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	names := make([]string, 0, len(sess.cart.Items))
	for _, item := range sess.cart.Items {
		names = append(names, item.PlaceName)
	}
	sort.Strings(names)
	return names
}

// AddToCart adds a place to the chat's cart, returning ErrCartFull when the
// cart already holds 10 distinct places and this is a new one. Callers must
// resolve placeName against the catalog first.
func (s *Store) AddToCart(chatID, placeName, addedBy string) (Cart, error) {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.cart.add(placeName, addedBy); err != nil {
		return sess.cart.clone(), err
	}
	return sess.cart.clone(), nil
}

// RemoveFromCart decrements or deletes the named item.
func (s *Store) RemoveFromCart(chatID, placeName string) Cart {
	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.remove(placeName)
	return sess.cart.clone()
}

// UpdateCartSettings overwrites the trip settings for the chat.
func (s *Store) UpdateCartSettings(chatID string, numDays, numPeople int) error {
	if numDays < 1 || numPeople < 1 {
		return ErrInvalidSettings
	}

	sess := s.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.NumDays = numDays
	sess.cart.NumPeople = numPeople
	return nil
}
