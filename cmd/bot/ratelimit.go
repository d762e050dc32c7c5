package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// commandRate is how many commands a user may run per second once their burst is used up.
	commandRate = rate.Limit(1)

	// commandBurst is how many commands a user may run back to back.
	commandBurst = 3

	// limiterIdleTTL is how long an idle user's limiter is kept.
	limiterIdleTTL = 10 * time.Minute
)

type userLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter rate limits interactions per user.
type userLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	users     map[string]*userLimit
	lastSweep time.Time
}

func newUserLimiter(limit rate.Limit, burst int) *userLimiter {
	return &userLimiter{
		limit: limit,
		burst: burst,
		users: make(map[string]*userLimit),
	}
}

// Allow reports whether the user may run a command now.
func (u *userLimiter) Allow(userID string) bool {
	return u.allowAt(userID, time.Now())
}

func (u *userLimiter) allowAt(userID string, now time.Time) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if now.Sub(u.lastSweep) > limiterIdleTTL {
		for id, ul := range u.users {
			if now.Sub(ul.lastSeen) > limiterIdleTTL {
				delete(u.users, id)
			}
		}
		u.lastSweep = now
	}

	ul, ok := u.users[userID]
	if !ok {
		ul = &userLimit{limiter: rate.NewLimiter(u.limit, u.burst)}
		u.users[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}
