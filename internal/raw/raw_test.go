package raw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) Value {
	t.Helper()
	v, err := Parse([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"fields":`))
	assert.Error(t, err)
}

func TestParse_NullIsAbsent(t *testing.T) {
	v := mustParse(t, `null`)
	assert.False(t, v.Present())
}

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.False(t, v.Present())
	assert.False(t, v.Get("anything").Present())
	_, ok := v.Text()
	assert.False(t, ok)
	_, ok = v.Items()
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	v := mustParse(t, `{"fields":{"avatar":{"fields":{"file":{"url":"//img/a.png"}}}}}`)

	tests := []struct {
		name    string
		path    []string
		want    string
		present bool
	}{
		{name: "full path", path: []string{"fields", "avatar", "fields", "file", "url"}, want: "//img/a.png", present: true},
		{name: "missing leaf", path: []string{"fields", "avatar", "fields", "file", "size"}},
		{name: "missing middle", path: []string{"fields", "logo", "fields", "file", "url"}},
		{name: "through a string", path: []string{"fields", "avatar", "fields", "file", "url", "deeper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Path(tt.path...)
			assert.Equal(t, tt.present, got.Present())
			s, ok := got.Text()
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name   string
		node   any
		want   int64
		wantOK bool
	}{
		{name: "json number", node: json.Number("42"), want: 42, wantOK: true},
		{name: "large json number", node: json.Number("9007199254740993"), want: 9007199254740993, wantOK: true},
		{name: "whole json float", node: json.Number("7.0"), want: 7, wantOK: true},
		{name: "fractional json float", node: json.Number("7.5")},
		{name: "float64", node: float64(3), want: 3, wantOK: true},
		{name: "int", node: 5, want: 5, wantOK: true},
		{name: "string", node: "5"},
		{name: "nil", node: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Of(tt.node).Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItems(t *testing.T) {
	v := mustParse(t, `{"empty":[],"two":[{"a":1},null],"notList":"x"}`)

	empty, ok := v.Get("empty").Items()
	require.True(t, ok)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	two, ok := v.Get("two").Items()
	require.True(t, ok)
	require.Len(t, two, 2)
	assert.True(t, two[0].Present())
	assert.False(t, two[1].Present(), "null element should be absent")

	_, ok = v.Get("notList").Items()
	assert.False(t, ok)

	_, ok = v.Get("missing").Items()
	assert.False(t, ok)
}

func TestLinkTarget(t *testing.T) {
	link := mustParse(t, `{"sys":{"type":"Link","linkType":"Asset","id":"abc"}}`)
	assert.True(t, link.IsLink())

	linkType, id, ok := link.LinkTarget()
	assert.True(t, ok)
	assert.Equal(t, "Asset", linkType)
	assert.Equal(t, "abc", id)

	entry := mustParse(t, `{"sys":{"type":"Entry","id":"abc"},"fields":{}}`)
	assert.False(t, entry.IsLink())
	_, _, ok = entry.LinkTarget()
	assert.False(t, ok)
}

func TestMarshalJSON(t *testing.T) {
	v := mustParse(t, `{"a":[1,"b"]}`)
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,"b"]}`, string(out))

	out, err = json.Marshal(Absent())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
