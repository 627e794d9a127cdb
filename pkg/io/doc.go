// Package io provides JSON import and export for world maps.
//
// # Overview
//
// A map file holds a complete [world.Snapshot]: every location with its
// resources and connections, plus the current location. Every store
// adapter persists exactly this document, so a map saved to Redis and one
// saved to disk are byte-for-byte the same.
//
// # JSON Format
//
//	{
//	  "locations": {
//	    "Forest": {
//	      "name": "Forest",
//	      "resources": ["wood", "berries"],
//	      "connections": {"south": "Beach"}
//	    },
//	    "Beach": {
//	      "name": "Beach",
//	      "resources": ["sand", "shells"],
//	      "connections": {"north": "Forest"}
//	    }
//	  },
//	  "current_location": "Forest"
//	}
//
// The layout matches map_data.json files written by earlier tools, so either
// side reads the other's files. Bytes may differ: strings are written as
// UTF-8 with no HTML or ASCII escaping ("Café", "salt&pepper").
//
// Rules:
//   - "locations" is keyed by location name; each entry repeats its name
//   - "resources" is always an array, empty when the location has none
//   - "connections" maps lowercase directions to target names
//   - "current_location" is null when no location is current
//
// # Ordering
//
// Go maps are unordered, so the writer emits locations in graph insertion
// order and connections in canonical direction order (north, south, east,
// west) instead of relying on map iteration. The reader walks the
// "locations" object token by token and keeps the file order. Insertion
// order matters: it drives the resource index and therefore which of two
// equally near locations [world.Graph.FindNearestResource] picks.
//
// # Import
//
// Use [ImportJSON] to read a map from a file path, [ReadJSON] to read from
// any io.Reader, or [Unmarshal] for bytes. All three reject documents that
// would not restore into a consistent graph with STORAGE_MALFORMED.
//
// # Export
//
// Use [ExportJSON], [WriteJSON] or [Marshal]. Output is indented with two
// spaces and ends with a newline.
package io
