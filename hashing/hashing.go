// Package hashing fingerprints configuration values.
package hashing

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/StimulCross/configs/internal/interfaces"
)

// Hash returns a stable FNV-64a fingerprint of v as 16 hex characters.
// Sequenced maps and Go maps hash independently of key order; slices hash in order.
func Hash(v any) string {
	h := fnv.New64a()
	writeValue(h, v)
	return formatHash(h.Sum64())
}

// formatHash converts a uint64 hash to a zero-padded 16-character hex string.
func formatHash(h uint64) string {
	const hexDigits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf[:])
}

// sliceSeparator keeps ["ab", "c"] and ["a", "bc"] apart.
const sliceSeparator = "\x1f"

// keyString renders a map key so entries can be sorted before they are written.
func keyString(k any) string {
	var sb strings.Builder
	writeValue(&sb, k)
	return sb.String()
}

type entry struct {
	key   string
	value any
}

func writeEntries(w io.Writer, entries []entry) {
	slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.key, b.key) })
	for _, e := range entries {
		_, _ = io.WriteString(w, e.key)
		writeValue(w, e.value)
	}
}

func writeValue(w io.Writer, v any) {
	if v == nil {
		return
	}

	switch v := v.(type) {
	case string:
		_, _ = io.WriteString(w, v)
		return
	case int:
		_, _ = io.WriteString(w, strconv.Itoa(v))
		return
	case int64:
		_, _ = io.WriteString(w, strconv.FormatInt(v, 10))
		return
	case float64:
		_, _ = io.WriteString(w, strconv.FormatFloat(v, 'f', -1, 64))
		return
	case bool:
		_, _ = io.WriteString(w, strconv.FormatBool(v))
		return
	case interfaces.SequencedMapInterface:
		if reflect.ValueOf(v).IsNil() {
			return
		}
		var entries []entry
		for k := range v.KeysAny() {
			if val, ok := v.GetAny(k); ok {
				entries = append(entries, entry{key: keyString(k), value: val})
			}
		}
		writeEntries(w, entries)
		return
	case json.Marshaler:
		// option values and rule settings keep their state unexported
		if rv := reflect.ValueOf(v); rv.Kind() != reflect.Ptr || !rv.IsNil() {
			if data, err := v.MarshalJSON(); err == nil {
				_, _ = w.Write(data)
				return
			}
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if i > 0 {
				_, _ = io.WriteString(w, sliceSeparator)
			}
			writeValue(w, rv.Index(i).Interface())
		}
	case reflect.Map:
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, entry{key: keyString(iter.Key().Interface()), value: iter.Value().Interface()})
		}
		writeEntries(w, entries)
	case reflect.Struct:
		for i := range rv.NumField() {
			field := rv.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			val := keyString(rv.Field(i).Interface())
			if val == "" {
				continue
			}
			_, _ = io.WriteString(w, field.Name)
			_, _ = io.WriteString(w, val)
		}
	case reflect.Ptr, reflect.Interface:
		if !rv.IsNil() {
			writeValue(w, rv.Elem().Interface())
		}
	case reflect.String:
		_, _ = io.WriteString(w, rv.String())
	default:
		_, _ = fmt.Fprintf(w, "%v", v)
	}
}
