package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// document is the top-level map file shape.
type document struct {
	Locations       object  `json:"locations"`
	CurrentLocation *string `json:"current_location"`
}

type location struct {
	Name        string   `json:"name"`
	Resources   []string `json:"resources"`
	Connections object   `json:"connections"`
}

// member is one key/value pair of an object.
type member struct {
	Key   string
	Value any
}

// object is a JSON object that keeps its members in slice order.
// encoding/json sorts map keys, which would lose insertion order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalRaw(m.Key)
		if err != nil {
			return nil, err
		}
		val, err := marshalRaw(m.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw is json.Marshal without HTML escaping, so "&", "<" and ">"
// in names and tags are written as-is.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func toDocument(snap world.Snapshot) document {
	doc := document{Locations: make(object, 0, len(snap.Locations))}
	for _, l := range snap.Locations {
		loc := location{
			Name:        l.Name,
			Resources:   l.Resources,
			Connections: object{},
		}
		if loc.Resources == nil {
			loc.Resources = []string{}
		}
		for _, exit := range l.Exits() {
			loc.Connections = append(loc.Connections, member{Key: exit.Direction.String(), Value: exit.Target})
		}
		doc.Locations = append(doc.Locations, member{Key: l.Name, Value: loc})
	}
	if snap.Current != "" {
		cur := snap.Current
		doc.CurrentLocation = &cur
	}
	return doc
}

// WriteJSON encodes a map snapshot as indented JSON and writes it to w.
//
// Locations appear in snapshot order and connections in canonical direction
// order, so the same graph always produces the same bytes. The output can be
// read back with [ReadJSON].
func WriteJSON(snap world.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(snap)); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode map")
	}
	return nil
}

// Marshal returns the JSON document for snap.
func Marshal(snap world.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(snap, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a map snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(snap world.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorageUnavailable, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(snap, f)
}
