// Package hub fans stopwatch snapshots out to any number of subscribers.
//
// Publish never blocks: every subscription keeps only the latest snapshot, so
// a slow presentation layer skips frames instead of stalling the engine.
package hub
