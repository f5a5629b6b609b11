// Package raw walks loosely-typed content graphs safely.
//
// A CMS returns records as nested JSON where any key, at any depth, may be
// missing. Instead of type-asserting through map[string]any by hand (and
// panicking on the first nil), callers wrap the decoded tree in a Value and
// walk it with accessors that never fail:
//
//	url, ok := entry.Path("fields", "avatar", "fields", "file", "url").Text()
//
// If any step along the path is missing or has the wrong shape, the result is
// an absent Value and the final typed reader returns ok == false.
package raw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a node of a decoded JSON graph, or the absence of one.
// The zero Value is absent.
type Value struct {
	node    any
	present bool
}

// Absent returns the absent Value.
func Absent() Value {
	return Value{}
}

// Of wraps an already-decoded node. A nil node is absent, matching how a
// JSON null or a missing key is treated by the content source.
func Of(node any) Value {
	if node == nil {
		return Value{}
	}
	return Value{node: node, present: true}
}

// Parse decodes a JSON document into a Value. Numbers are kept as
// json.Number so integer identifiers survive without float rounding.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var node any
	if err := dec.Decode(&node); err != nil {
		return Value{}, fmt.Errorf("raw: decoding document: %w", err)
	}
	return Of(node), nil
}

// Present reports whether v holds a node.
func (v Value) Present() bool {
	return v.present
}

// Get returns the member named key. It is absent when v is absent, is not an
// object, or has no such member.
func (v Value) Get(key string) Value {
	obj, ok := v.node.(map[string]any)
	if !ok {
		return Value{}
	}
	return Of(obj[key])
}

// Path follows a chain of object members.
func (v Value) Path(keys ...string) Value {
	for _, k := range keys {
		v = v.Get(k)
	}
	return v
}

// Fields is shorthand for Get("fields"), the member holding a record's content.
func (v Value) Fields() Value {
	return v.Get("fields")
}

// Text returns the node as a string.
func (v Value) Text() (string, bool) {
	s, ok := v.node.(string)
	return s, ok
}

// Int returns the node as an integer. Whole-valued floats are accepted since
// decoders that don't use json.Number produce them for every number.
func (v Value) Int() (int64, bool) {
	switch n := v.node.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return wholeFloat(f)
	case float64:
		return wholeFloat(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// Items returns the elements of a list node, each wrapped as a Value.
// ok is false when v is absent or not a list; an empty list yields a
// non-nil, zero-length slice.
func (v Value) Items() ([]Value, bool) {
	list, ok := v.node.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Value, len(list))
	for i, item := range list {
		out[i] = Of(item)
	}
	return out, true
}

// IsLink reports whether v is an unresolved reference to another record:
//
//	{"sys": {"type": "Link", "linkType": "Entry", "id": "abc"}}
func (v Value) IsLink() bool {
	t, _ := v.Path("sys", "type").Text()
	return t == "Link"
}

// LinkTarget returns the link type ("Entry" or "Asset") and id of a link.
func (v Value) LinkTarget() (linkType, id string, ok bool) {
	if !v.IsLink() {
		return "", "", false
	}
	sys := v.Get("sys")
	linkType, _ = sys.Get("linkType").Text()
	id, _ = sys.Get("id").Text()
	return linkType, id, id != ""
}

// Interface returns the underlying decoded node, or nil when absent.
func (v Value) Interface() any {
	return v.node
}

// MarshalJSON encodes the underlying node. Absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.node)
}

func wholeFloat(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
