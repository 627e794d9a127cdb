package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// storedLocation is the decoded form of one entry under "locations".
type storedLocation struct {
	Name        string            `json:"name"`
	Resources   []string          `json:"resources"`
	Connections map[string]string `json:"connections"`
}

// ReadJSON decodes a JSON map document from r into a snapshot.
//
// The input must be an object with a "locations" object and an optional
// "current_location" (string or null):
//
//	{
//	  "locations": {
//	    "Forest": {"name": "Forest", "resources": ["wood"], "connections": {"south": "Beach"}},
//	    "Beach":  {"name": "Beach", "resources": [], "connections": {"north": "Forest"}}
//	  },
//	  "current_location": "Forest"
//	}
//
// The "locations" object is read token by token so the snapshot keeps the
// file's location order. ReadJSON fails with STORAGE_MALFORMED if:
//   - The JSON is malformed, or "locations" is missing
//   - A location's "name" disagrees with its key
//   - A connection uses an unknown direction
//   - The document would not restore into a consistent graph (duplicate
//     names, connections or current location pointing at unknown locations)
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (world.Snapshot, error) {
	snap, err := decode(json.NewDecoder(r))
	if err != nil {
		return world.Snapshot{}, errs.Wrap(errs.ErrCodeStorageMalformed, err, "decode map")
	}
	if err := world.New().Restore(snap); err != nil {
		return world.Snapshot{}, errs.Wrap(errs.ErrCodeStorageMalformed, err, "inconsistent map")
	}
	return snap, nil
}

// Unmarshal decodes a JSON map document held in memory. See [ReadJSON].
func Unmarshal(data []byte) (world.Snapshot, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads the JSON map file at path.
//
// A missing file fails with STORAGE_NOT_FOUND, any other open error with
// STORAGE_UNAVAILABLE. Decoding errors are those of [ReadJSON].
func ImportJSON(path string) (world.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return world.Snapshot{}, errs.Wrap(errs.ErrCodeStorageNotFound, err, "map file %s not found", path)
		}
		return world.Snapshot{}, errs.Wrap(errs.ErrCodeStorageUnavailable, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func decode(dec *json.Decoder) (world.Snapshot, error) {
	var (
		snap         world.Snapshot
		sawLocations bool
	)
	if err := expectDelim(dec, '{'); err != nil {
		return snap, err
	}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return snap, err
		}
		switch key {
		case "locations":
			locs, err := decodeLocations(dec)
			if err != nil {
				return snap, err
			}
			snap.Locations = locs
			sawLocations = true
		case "current_location":
			var cur *string
			if err := dec.Decode(&cur); err != nil {
				return snap, fmt.Errorf("current_location: %w", err)
			}
			if cur != nil {
				snap.Current = *cur
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return snap, fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return snap, err
	}
	if !sawLocations {
		return snap, errors.New(`missing "locations"`)
	}
	return snap, nil
}

func decodeLocations(dec *json.Decoder) ([]*world.Location, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	var locs []*world.Location
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var stored storedLocation
		if err := dec.Decode(&stored); err != nil {
			return nil, fmt.Errorf("location %s: %w", key, err)
		}
		if stored.Name != key {
			return nil, fmt.Errorf("location %s: name %q does not match its key", key, stored.Name)
		}
		loc := world.NewLocation(stored.Name, stored.Resources...)
		for word, target := range stored.Connections {
			d, err := world.ParseDirection(word)
			if err != nil {
				return nil, fmt.Errorf("location %s: %w", key, err)
			}
			if err := loc.AddConnection(d, target); err != nil {
				return nil, fmt.Errorf("location %s: %w", key, err)
			}
		}
		locs = append(locs, loc)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	return locs, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
