// Package notification provides the operator-facing notice feed used by the
// allocation workflow. A Service is created per session and injected; there
// is no package-level queue.
package notification

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level is the severity of a notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single operator-visible message
type Notice struct {
	ID        uint64
	Level     Level
	Title     string
	Message   string
	CreatedAt time.Time
}

// Notifier publishes notices
type Notifier interface {
	Notify(level Level, title, message string) Notice
}

// DefaultCapacity is the queue size used when none is configured
const DefaultCapacity = 50

// Service keeps the most recent notices in a bounded queue and fans them
// out to subscribers. The oldest notice is evicted when the queue is full.
type Service struct {
	mu          sync.Mutex
	capacity    int
	queue       []Notice
	nextID      uint64
	nextSubID   uint64
	subscribers map[uint64]func(Notice)
	now         func() time.Time
}

// NewService creates a notice service holding at most capacity notices
func NewService(capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{
		capacity:    capacity,
		queue:       make([]Notice, 0, capacity),
		subscribers: make(map[uint64]func(Notice)),
		now:         time.Now,
	}
}

// Notify queues a notice and delivers it to current subscribers.
// Subscribers run on the caller's goroutine after the lock is released.
func (s *Service) Notify(level Level, title, message string) Notice {
	s.mu.Lock()
	s.nextID++
	n := Notice{
		ID:        s.nextID,
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	if len(s.queue) == s.capacity {
		copy(s.queue, s.queue[1:])
		s.queue = s.queue[:len(s.queue)-1]
	}
	s.queue = append(s.queue, n)

	subs := make([]func(Notice), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return n
}

// Recent returns queued notices, oldest first
func (s *Service) Recent() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notice(nil), s.queue...)
}

// Dismiss removes a notice from the queue
func (s *Service) Dismiss(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.queue {
		if s.queue[i].ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the queue
func (s *Service) Clear() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.mu.Unlock()
}

// Len returns the number of queued notices
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Subscribe registers fn for every notice published from now on.
// The returned Subscription must be released with Unsubscribe.
func (s *Service) Subscribe(fn func(Notice)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	return &Subscription{service: s, id: id}
}

// SubscriberCount returns the number of live subscriptions
func (s *Service) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Service) unsubscribe(id uint64) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// Subscription is a handle returned by Subscribe
type Subscription struct {
	service *Service
	id      uint64
	once    sync.Once
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		sub.service.unsubscribe(sub.id)
	})
}

// LogSubscriber returns a subscriber writing each notice to logger
func LogSubscriber(logger *zap.Logger) func(Notice) {
	return func(n Notice) {
		fields := []zap.Field{
			zap.Uint64("notice_id", n.ID),
			zap.String("title", n.Title),
			zap.String("message", n.Message),
		}
		switch n.Level {
		case LevelError:
			logger.Error("notice", fields...)
		case LevelWarning:
			logger.Warn("notice", fields...)
		default:
			logger.Info("notice", fields...)
		}
	}
}

type discard struct{}

func (discard) Notify(level Level, title, message string) Notice {
	return Notice{Level: level, Title: title, Message: message, CreatedAt: time.Now()}
}

// Discard is a Notifier that drops every notice
var Discard Notifier = discard{}
