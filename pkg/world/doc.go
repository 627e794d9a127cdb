// Package world provides the location graph at the heart of Wayfinder.
//
// A [Graph] holds uniquely named locations. Each [Location] carries a set of
// resource tags and at most one outgoing connection per compass [Direction].
// The graph keeps a reverse index from resource tags to the locations that
// carry them, and optionally remembers a current location.
//
// # Connections
//
// [Graph.AddConnection] is bidirectional but never destructive: it fills the
// forward slot and the reverse (opposite direction) slot independently, and
// only where the slot is still empty. Connecting two locations twice in
// conflicting ways therefore leaves the first connection in place.
//
// # Queries
//
// [Graph.FindPath] returns the fewest-steps route between two locations and
// [Graph.FindNearestResource] finds the closest location carrying a tag.
// Both are deterministic for a given graph.
//
// # Persistence
//
// [Graph.Snapshot] and [Graph.Restore] move the full state in and out of the
// graph. Restore is atomic: an inconsistent snapshot is rejected and the
// graph keeps its previous contents. Encoding snapshots is the job of
// package io.
package world
