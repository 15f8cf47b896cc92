// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another entity. It holds the id, and the embedded
// document when the relation was populated.
//
// On the wire it is either the bare id string or the full document.
type Ref[E any] struct {
	ID  string
	Doc *E
}

// RefTo creates an unpopulated reference.
func RefTo[E any](id string) Ref[E] {
	return Ref[E]{ID: id}
}

// IsZero reports whether the reference is unset.
func (ref Ref[E]) IsZero() bool {
	return ref.ID == "" && ref.Doc == nil
}

// Populated reports whether the document is embedded.
func (ref Ref[E]) Populated() bool {
	return ref.Doc != nil
}

// MarshalJSON implements [json.Marshaler].
func (ref Ref[E]) MarshalJSON() ([]byte, error) {
	switch {
	case ref.Doc != nil:
		return json.Marshal(ref.Doc)
	case ref.ID == "":
		return []byte("null"), nil
	default:
		return json.Marshal(ref.ID)
	}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (ref *Ref[E]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*ref = Ref[E]{}
		return nil

	case len(trimmed) > 0 && trimmed[0] == '{':
		var identity struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(trimmed, &identity); err != nil {
			return err
		}

		doc := new(E)
		if err := json.Unmarshal(trimmed, doc); err != nil {
			return err
		}
		*ref = Ref[E]{ID: identity.ID, Doc: doc}
		return nil

	default:
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*ref = Ref[E]{ID: id}
		return nil
	}
}
