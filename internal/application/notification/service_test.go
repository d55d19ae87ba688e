package notification

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestService_BoundedQueue(t *testing.T) {
	svc := NewService(3)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		svc.Notify(LevelInfo, title, "")
	}

	recent := svc.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].Title)
	assert.Equal(t, "e", recent[2].Title)
	assert.Equal(t, uint64(5), recent[2].ID)
}

func TestService_DefaultCapacity(t *testing.T) {
	svc := NewService(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		svc.Notify(LevelInfo, "x", "")
	}
	assert.Equal(t, DefaultCapacity, svc.Len())
}

func TestService_DismissAndClear(t *testing.T) {
	svc := NewService(10)
	first := svc.Notify(LevelWarning, "first", "")
	svc.Notify(LevelWarning, "second", "")

	assert.True(t, svc.Dismiss(first.ID))
	assert.False(t, svc.Dismiss(first.ID))
	require.Len(t, svc.Recent(), 1)
	assert.Equal(t, "second", svc.Recent()[0].Title)

	svc.Clear()
	assert.Zero(t, svc.Len())
}

func TestService_SubscribeUnsubscribe(t *testing.T) {
	svc := NewService(10)
	var mu sync.Mutex
	var got []string

	sub := svc.Subscribe(func(n Notice) {
		mu.Lock()
		got = append(got, n.Title)
		mu.Unlock()
	})
	assert.Equal(t, 1, svc.SubscriberCount())

	svc.Notify(LevelInfo, "one", "")
	sub.Unsubscribe()
	sub.Unsubscribe()
	svc.Notify(LevelInfo, "two", "")

	assert.Equal(t, []string{"one"}, got)
	assert.Zero(t, svc.SubscriberCount())
}

func TestService_SubscriberMayNotifyAgain(t *testing.T) {
	svc := NewService(10)
	var sub *Subscription
	sub = svc.Subscribe(func(n Notice) {
		if n.Level == LevelError {
			sub.Unsubscribe()
			svc.Notify(LevelInfo, "follow-up", "")
		}
	})

	svc.Notify(LevelError, "boom", "")
	assert.Equal(t, 2, svc.Len())
}

func TestLogSubscriber(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(5)
	sub := svc.Subscribe(LogSubscriber(zap.New(core)))
	defer sub.Unsubscribe()

	svc.Notify(LevelWarning, "Batches unavailable", "P1: timeout")
	svc.Notify(LevelError, "Save failed", "server said no")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "Batches unavailable", entries[0].ContextMap()["title"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestDiscard(t *testing.T) {
	n := Discard.Notify(LevelInfo, "t", "m")
	assert.Equal(t, "t", n.Title)
}
