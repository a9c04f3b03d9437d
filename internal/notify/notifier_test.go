package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_ShowAndExpire(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	defer n.Close()

	n.Show("Found 4 flights")

	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "Found 4 flights", got.Message)

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_LaterShowReplacesAndResetsTimer(t *testing.T) {
	n := NewNotifier(80 * time.Millisecond)
	defer n.Close()

	n.Show("first")
	time.Sleep(50 * time.Millisecond)
	n.Show("second")

	// the first timer would have fired by now
	time.Sleep(50 * time.Millisecond)
	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", got.Message)

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_ExpiryUsesClock(t *testing.T) {
	fixed := time.Date(2023, 12, 1, 8, 0, 0, 0, time.UTC)
	n := NewNotifier(time.Hour, WithClock(func() time.Time { return fixed }))
	defer n.Close()

	n.Show("hello")
	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, fixed.Add(time.Hour), got.ExpiresAt)
}

func TestNotifier_OnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	n := NewNotifier(20*time.Millisecond, WithOnChange(func(cur *Notification) {
		mu.Lock()
		defer mu.Unlock()
		if cur == nil {
			seen = append(seen, "<cleared>")
			return
		}
		seen = append(seen, cur.Message)
	}))
	defer n.Close()

	n.Show("a")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "<cleared>"}, seen)
}

func TestNotifier_CloseStopsTimer(t *testing.T) {
	n := NewNotifier(20 * time.Millisecond)
	n.Show("pending")
	n.Close()

	time.Sleep(50 * time.Millisecond)
	got, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "pending", got.Message)

	n.Show("ignored")
	got, _ = n.Current()
	assert.Equal(t, "pending", got.Message)
}
