// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package quota

import (
	"sync"
	"time"
)

// EvictionInterval is the minimum time between scans that drop users whose
// upload window has fully emptied.
const EvictionInterval = 5 * time.Minute

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed bool

	// Oldest is the oldest upload still inside the window.
	// Only meaningful when Allowed is false.
	Oldest time.Time
}

// Keeper tracks completed uploads per user and enforces a sliding-window
// quota of limit uploads per window.
//
// All methods are safe for concurrent use. Check and Record are each atomic;
// a caller performing an upload between the two may still briefly overshoot
// the quota if it races another upload for the same user.
type Keeper struct {
	mu      sync.Mutex
	uploads map[int64][]time.Time

	limit    int
	window   time.Duration
	exemptID int64

	lastEvictionAt time.Time

	timeNow func() time.Time // Wrapper for time.Now, which allows us to mock it in tests.
}

// NewKeeper returns a Keeper allowing limit uploads per window.
//
// exemptID identifies a user (the bot owner) whose checks always pass.
func NewKeeper(limit int, window time.Duration, exemptID int64) *Keeper {
	return &Keeper{
		uploads:  make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		exemptID: exemptID,
		timeNow:  time.Now,
	}
}

// Check reports whether the given user may upload right now.
//
// Uploads that have aged out of the window are pruned from the user's record
// as a side effect. Repeated calls at the same instant converge to the same
// stored state and decision.
func (k *Keeper) Check(userID int64) Decision {
	if userID == k.exemptID {
		return Decision{Allowed: true}
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.timeNow()

	k.maybeEvictIdle(now)

	recorded, ok := k.uploads[userID]
	if !ok {
		return Decision{Allowed: true}
	}

	relevant := recorded[:0]

	for _, ts := range recorded {
		if now.Sub(ts) < k.window {
			relevant = append(relevant, ts)
		}
	}

	k.uploads[userID] = relevant

	if len(relevant) >= k.limit {
		oldest := relevant[0]

		for _, ts := range relevant[1:] {
			if ts.Before(oldest) {
				oldest = ts
			}
		}

		return Decision{Allowed: false, Oldest: oldest}
	}

	return Decision{Allowed: true}
}

// Record marks a completed upload for the given user.
//
// Call it only after the upload actually succeeded, and only if the
// preceding Check allowed it.
func (k *Keeper) Record(userID int64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.uploads[userID] = append(k.uploads[userID], k.timeNow())
}

// Limit returns the maximum number of uploads per window.
func (k *Keeper) Limit() int {
	return k.limit
}

// Window returns the quota window duration.
func (k *Keeper) Window() time.Duration {
	return k.window
}

// maybeEvictIdle drops users whose every recorded upload has aged out of the
// window. Runs at most once per EvictionInterval; callers must hold k.mu.
//
// Eviction only bounds memory on a long-running process. It never changes a
// decision: a user with an empty (or missing) record is allowed either way.
func (k *Keeper) maybeEvictIdle(now time.Time) {
	if k.lastEvictionAt.IsZero() {
		k.lastEvictionAt = now

		return
	}

	if now.Sub(k.lastEvictionAt) < EvictionInterval {
		return
	}

	k.lastEvictionAt = now

	for userID, recorded := range k.uploads {
		idle := true

		for _, ts := range recorded {
			if now.Sub(ts) < k.window {
				idle = false

				break
			}
		}

		if idle {
			delete(k.uploads, userID)
		}
	}
}

// trackedUsers returns the number of users with a record in memory.
//
// Test hook for eviction behavior.
func (k *Keeper) trackedUsers() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.uploads)
}

// recordedCount returns the number of stored timestamps for a user.
//
// Test hook for prune-on-read behavior.
func (k *Keeper) recordedCount(userID int64) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.uploads[userID])
}
