package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes an EDN rendition of v. Values go through encoding/json first so
// json tags decide field names; keys become kebab-case keywords (subCharts ->
// :sub-charts). Vectors of scalars (grid rows) stay on one line even when pretty.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := toGeneric(v)
	if err != nil {
		return err
	}
	e := &ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return x, nil
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) newline(level int) {
	if !e.pretty {
		e.buf.WriteByte(' ')
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat("  ", level))
}

func (e *ednWriter) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case float64:
		if float64(int64(t)) == t {
			e.buf.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		e.vector(t, level)
	case map[string]any:
		e.mapping(t, level)
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func scalar(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return false
	}
	return true
}

func (e *ednWriter) vector(xs []any, level int) {
	e.buf.WriteByte('[')
	flat := !e.pretty
	if !flat {
		flat = true
		for _, x := range xs {
			if !scalar(x) {
				flat = false
				break
			}
		}
	}
	for i, x := range xs {
		switch {
		case flat && i > 0:
			e.buf.WriteByte(' ')
		case !flat && i > 0:
			e.newline(level + 1)
		case !flat:
			e.buf.WriteString("\n" + strings.Repeat("  ", level+1))
		}
		e.value(x, level+1)
	}
	e.buf.WriteByte(']')
}

func (e *ednWriter) mapping(m map[string]any, level int) {
	e.buf.WriteByte('{')
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 || e.pretty {
			if i == 0 {
				e.buf.WriteString("\n" + strings.Repeat("  ", level+1))
			} else {
				e.newline(level + 1)
			}
		}
		e.buf.WriteString(ednKeyword(k))
		e.buf.WriteByte(' ')
		e.value(m[k], level+1)
	}
	e.buf.WriteByte('}')
}

// ednKeyword turns a json field name into a keyword: "subCharts" -> ":sub-charts".
func ednKeyword(s string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
