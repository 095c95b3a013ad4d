package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turns(n int) []Message {
	out := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		out = append(out, Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return out
}

func TestWindowDropsOldest(t *testing.T) {
	w := NewStore(DefaultTurns).GetOrCreate("s1")
	for _, m := range turns(6) {
		w.append(m)
	}
	got := w.Messages()
	require.Len(t, got, 4)
	assert.Equal(t, "m2", got[0].Content)
	assert.Equal(t, "m5", got[3].Content)
}

func TestRehydrate(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 9} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			w := NewStore(DefaultTurns).GetOrCreate("s1")
			w.AppendUser("stale")
			msgs := turns(n)
			w.Rehydrate(msgs)

			want := n
			if want > 4 {
				want = 4
			}
			got := w.Messages()
			require.Len(t, got, want)
			if want > 0 {
				assert.Equal(t, msgs[n-want:], got)
			}
			for _, m := range got {
				assert.NotEqual(t, "stale", m.Content)
			}

			// rehydrating twice does not duplicate
			w.Rehydrate(msgs)
			assert.Len(t, w.Messages(), want)
		})
	}
}

func TestMessagesIsACopy(t *testing.T) {
	w := NewStore(1).GetOrCreate("s1")
	w.AppendUser("hello")
	snap := w.Messages()
	snap[0].Content = "changed"
	assert.Equal(t, "hello", w.Messages()[0].Content)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(DefaultTurns)
	a := s.GetOrCreate("a")
	b := s.GetOrCreate("b")
	a.AppendUser("only in a")
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Same(t, a, s.GetOrCreate("a"))
}

func TestAcquireSerialisesSession(t *testing.T) {
	s := NewStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, release := s.Acquire("shared")
			defer release()
			w.AppendUser(fmt.Sprint(i))
			w.AppendAssistant(fmt.Sprint(i))
		}(i)
	}
	wg.Wait()

	msgs := s.GetOrCreate("shared").Messages()
	require.Len(t, msgs, 40)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, RoleUser, msgs[i].Role)
		assert.Equal(t, RoleAssistant, msgs[i+1].Role)
		assert.Equal(t, msgs[i].Content, msgs[i+1].Content)
	}
}

func TestEvict(t *testing.T) {
	s := NewStore(DefaultTurns)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.GetOrCreate("old")
	_, release := s.Acquire("busy")
	now = now.Add(10 * time.Minute)
	s.GetOrCreate("fresh")

	assert.Equal(t, 1, s.Evict(5*time.Minute))
	assert.Equal(t, 2, s.Len())

	release()
	now = now.Add(10 * time.Minute)
	assert.Equal(t, 2, s.Evict(5*time.Minute))
	assert.Equal(t, 0, s.Len())
}
