// ABOUTME: Shared store plumbing: options, fetch status, and collection helpers
// ABOUTME: Stores are explicit service objects with an injected API client, one per configuration
package store

import (
	"log"

	"salespad/activity"
	"salespad/cache"
)

// Status is the loading/error state every fetch operation maintains. Error
// holds a human-readable message from the last failed call, cleared on the
// next success.
type Status struct {
	Loading bool
	Error   string
}

// Options configures optional store behavior. The zero value disables the
// snapshot cache, activity recording, and demo fallback.
type Options struct {
	// Cache, when set, persists the last good fetch per collection and is
	// preferred over demo data when a fetch fails.
	Cache *cache.Cache

	// Recorder, when set, logs created/updated/deleted activities for the
	// local timeline.
	Recorder *activity.Recorder

	// DemoFallback substitutes the fixed demo dataset on fetch failure when
	// no cached snapshot exists. Off in production configurations.
	DemoFallback bool
}

// indexOf returns the position of the element with the given identifier, or
// -1. Identifiers are unique within a collection.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// removeAt deletes the element at i, preserving order.
func removeAt[T any](items []T, i int) []T {
	return append(items[:i], items[i+1:]...)
}

// recoverCollection builds a replacement collection after a failed fetch: a
// cached snapshot wins, then the demo fallback when enabled. Returns false
// when the existing collection should be left alone.
func recoverCollection[T any](opts Options, entity string, fallback func() []T) ([]T, bool) {
	if opts.Cache != nil {
		var cached []T
		found, err := opts.Cache.LoadSnapshot(entity, &cached)
		if err != nil {
			log.Printf("warning: failed to load %s snapshot: %v", entity, err)
		} else if found {
			return cached, true
		}
	}
	if opts.DemoFallback && fallback != nil {
		return fallback(), true
	}
	return nil, false
}

// saveSnapshot persists a collection best-effort; cache failures never fail
// the fetch that produced the data.
func saveSnapshot(c *cache.Cache, entity string, collection interface{}) {
	if c == nil {
		return
	}
	if err := c.SaveSnapshot(entity, collection); err != nil {
		log.Printf("warning: failed to cache %s snapshot: %v", entity, err)
	}
}
