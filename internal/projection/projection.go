// Package projection turns stored entities into their public JSON shapes.
// Every shape is an explicit, ordered field table; nothing is derived by
// reflection, so a field only appears in a response if it is listed here.
package projection

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/samber/lo"
)

// Context carries the request facts a projection may depend on
type Context struct {
	Scheme   string // "http" or "https"
	Host     string // request host, empty when unknown
	MediaURL string // public prefix of uploaded files
}

// Field maps one output key to a value computed from the source entity
type Field[T any] struct {
	Name  string
	Value func(T, Context) any
}

// Member is one key/value pair of an Object
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its keys in table order
type Object []Member

// MarshalJSON writes the members in order
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(m.Key); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(m.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encoder.Encode terminates every value with a newline
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// Get returns the value stored under key
func (o Object) Get(key string) (any, bool) {
	m, ok := lo.Find(o, func(m Member) bool { return m.Key == key })
	return m.Value, ok
}

// Keys lists the member keys in order
func (o Object) Keys() []string {
	return lo.Map(o, func(m Member, _ int) string { return m.Key })
}

// Render applies fields to v
func Render[T any](fields []Field[T], v T, ctx Context) Object {
	return lo.Map(fields, func(f Field[T], _ int) Member {
		return Member{Key: f.Name, Value: f.Value(v, ctx)}
	})
}

// RenderAll applies fields to every element; an empty input gives an empty, non-nil slice
func RenderAll[T any](fields []Field[T], vs []T, ctx Context) []Object {
	return lo.Map(vs, func(v T, _ int) Object { return Render(fields, v, ctx) })
}

// Timestamp formats t the way the public API always has: ISO 8601 in UTC
// with a Z suffix, microseconds only when non-zero.
func Timestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/1000 == 0 {
		return t.Format("2006-01-02T15:04:05Z07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000Z07:00")
}
