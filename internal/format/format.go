// Package format holds the small value formatters used by the page templates.
package format

import (
	"fmt"
	"html/template"
	"reflect"
	"strings"

	"github.com/readingroom/bookclub/internal/domain"
)

// JoinList joins a list of values with ", ". Anything that is not a list is
// returned unchanged.
func JoinList(v any) any {
	switch l := v.(type) {
	case []string:
		return strings.Join(l, ", ")
	case domain.StringList:
		return strings.Join(l, ", ")
	case []template.HTML:
		parts := make([]string, len(l))
		for i, h := range l {
			parts[i] = string(h)
		}
		return template.HTML(strings.Join(parts, ", "))
	case []any:
		parts := make([]string, len(l))
		for i, item := range l {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return v
	}
}

// MetaLine renders "<strong>label:</strong> value<br>" for the margin notes,
// or nothing when value is missing, empty, or zero. template.HTML values are
// inserted as is; everything else is escaped.
func MetaLine(label string, value any) template.HTML {
	value = JoinList(value)
	if !Present(value) {
		return ""
	}

	var body string
	switch v := value.(type) {
	case template.HTML:
		body = string(v)
	case domain.OptionalInt:
		body = fmt.Sprint(v.Value)
	default:
		body = template.HTMLEscapeString(fmt.Sprint(v))
	}
	return template.HTML("<strong>" + template.HTMLEscapeString(label) + ":</strong> " + body + "<br>")
}

// Present reports whether v carries something worth showing: not nil, not an
// empty string or list, not a zero number, not false, and not an unset
// OptionalInt.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case domain.OptionalInt:
		return x.Valid && x.Value != 0
	case domain.Score:
		return x.IsSet()
	case template.HTML:
		return strings.TrimSpace(string(x)) != ""
	case string:
		return strings.TrimSpace(x) != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil() && Present(rv.Elem().Interface())
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

// JoinAnd joins names in prose: "a", "a and b", "a, b and c". With oxford
// the last separator is ", and".
func JoinAnd(items []string, oxford bool) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	last := " and "
	if oxford {
		last = ", and "
	}
	return strings.Join(items[:len(items)-1], ", ") + last + items[len(items)-1]
}
