// Package store persists pinned daily words, used-word history and puzzle
// state on top of a small key/value abstraction.
//
// The key layout is shared by every backend and is relied on by external
// inspection tooling:
//
//	word:{namespace}:{day}   pinned word
//	used:{namespace}         set of previously used words
//	used:{namespace}:recent  sorted set of used words scored by when they were used
//	puzzle:state:{day}       JSON encoded puzzle state
//
// The main namespace additionally mirrors the legacy keys wotd:word:{day}
// and wotd:used so data written before namespacing is not orphaned.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key doesn't exist.
var ErrNotFound = errors.New("key not found")

// KV is the minimal set of operations a backend must provide. There are no
// transactions; Set overwrites and SAdd is an idempotent union-add.
type KV interface {
	// Get returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SMembers returns an empty slice for a missing set.
	SMembers(ctx context.Context, key string) ([]string, error)
	SAdd(ctx context.Context, key, member string) error
	// ZAdd sets member's score in a sorted set, adding it if absent.
	ZAdd(ctx context.Context, key string, score int64, member string) error
	// ZTail returns the n highest scored members, lowest score first. A
	// negative n returns every member.
	ZTail(ctx context.Context, key string, n int) ([]string, error)
	Ping(ctx context.Context) error
	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}
