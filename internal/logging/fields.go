package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type field struct {
	key   string
	value slog.Value
}

// fields is a flattened record: handler attrs first, then record attrs, with
// group names joined into dotted keys.
type fields []field

// scope carries the attrs and groups accumulated through WithAttrs and
// WithGroup. Methods return copies so derived handlers never share slices.
type scope struct {
	attrs  []slog.Attr
	groups []string
}

func (s scope) withAttrs(attrs []slog.Attr) scope {
	s.attrs = append(s.attrs[:len(s.attrs):len(s.attrs)], attrs...)
	return s
}

func (s scope) withGroup(name string) scope {
	s.groups = append(s.groups[:len(s.groups):len(s.groups)], name)
	return s
}

func (s scope) flatten(record slog.Record) fields {
	out := make(fields, 0, len(s.attrs)+record.NumAttrs())
	for _, attr := range s.attrs {
		out = out.add(s.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		out = out.add(s.groups, attr)
		return true
	})
	return out
}

func (fs fields) add(prefix []string, attr slog.Attr) fields {
	if attr.Equal(slog.Attr{}) {
		return fs
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix = append(prefix[:len(prefix):len(prefix)], attr.Key)
		}
		for _, child := range attr.Value.Group() {
			fs = fs.add(prefix, child)
		}
		return fs
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	return append(fs, field{key: key, value: attr.Value})
}

// take removes every field named key and returns the first one's text.
func (fs *fields) take(key string) string {
	var found string
	kept := (*fs)[:0]
	for _, f := range *fs {
		if f.key != key {
			kept = append(kept, f)
			continue
		}
		if found == "" {
			found = plainText(f.value)
		}
	}
	*fs = kept
	return found
}

func (fs fields) writeTo(b *strings.Builder, hidden func(string) bool) {
	for _, f := range fs {
		if f.key == "" || (hidden != nil && hidden(f.key)) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(renderValue(f.value))
	}
}

func plainText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	return renderValue(v)
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindString, slog.KindAny:
		return quoted(plainText(v))
	}
	return v.String()
}

func quoted(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
