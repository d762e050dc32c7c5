package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserLimiter(t *testing.T) {
	u := newUserLimiter(commandRate, commandBurst)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < commandBurst; i++ {
		require.True(t, u.allowAt("alice", now), "burst command %d", i)
	}
	require.False(t, u.allowAt("alice", now))

	// Other users have their own budget.
	require.True(t, u.allowAt("bob", now))

	// One token comes back every second.
	require.True(t, u.allowAt("alice", now.Add(time.Second)))
	require.False(t, u.allowAt("alice", now.Add(time.Second)))
}

func TestUserLimiter_EvictsIdleUsers(t *testing.T) {
	u := newUserLimiter(commandRate, commandBurst)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, u.allowAt("alice", now))
	require.Len(t, u.users, 1)

	later := now.Add(2 * limiterIdleTTL)
	require.True(t, u.allowAt("bob", later))
	require.Len(t, u.users, 1)
	require.Contains(t, u.users, "bob")
}
