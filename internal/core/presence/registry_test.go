package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	r.Register("sess-1", "user-1")

	entry, ok := r.LookupByUser("user-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", entry.SessionID)
	assert.Equal(t, "user-1", entry.UserID)

	entry, ok = r.LookupBySession("sess-1")
	require.True(t, ok)
	assert.Equal(t, "user-1", entry.UserID)

	assert.Equal(t, 1, r.Len())
}

func TestRegistry_LookupMisses(t *testing.T) {
	r := NewRegistry()

	_, ok := r.LookupByUser("nobody")
	assert.False(t, ok)

	_, ok = r.LookupBySession("no-session")
	assert.False(t, ok)
}

func TestRegistry_DuplicateSessionIsNoOp(t *testing.T) {
	r := NewRegistry()

	r.Register("sess-1", "user-1")
	r.Register("sess-1", "user-2")

	entry, ok := r.LookupBySession("sess-1")
	require.True(t, ok)
	assert.Equal(t, "user-1", entry.UserID, "re-registering a session must not rebind it")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_MultiSessionFirstWins(t *testing.T) {
	r := NewRegistry()

	r.Register("sess-1", "user-1")
	r.Register("sess-2", "user-1")

	entry, ok := r.LookupByUser("user-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", entry.SessionID, "earliest-registered session is the delivery target")

	// Dropping the first session promotes the next one
	r.Remove("sess-1")
	entry, ok = r.LookupByUser("user-1")
	require.True(t, ok)
	assert.Equal(t, "sess-2", entry.SessionID)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()

	r.Register("sess-1", "user-1")
	r.Remove("sess-1")

	_, ok := r.LookupByUser("user-1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Removing an absent session is a no-op
	r.Remove("sess-1")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_EmptyArgumentsIgnored(t *testing.T) {
	r := NewRegistry()

	r.Register("", "user-1")
	r.Register("sess-1", "")

	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sess := fmt.Sprintf("sess-%d", n)
			user := fmt.Sprintf("user-%d", n%10)
			r.Register(sess, user)
			r.LookupByUser(user)
			r.LookupBySession(sess)
			if n%2 == 0 {
				r.Remove(sess)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
}
