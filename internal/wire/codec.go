package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"time"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

// tagKey marks an object as a tagged wire encoding rather than a plain record.
const tagKey = "$vc"

const (
	tagURL  = "url"
	tagTime = "time"
	tagMap  = "map"
	tagSet  = "set"
	tagFunc = "func"
	tagObj  = "obj"
)

// Map is an order-preserving mapping with arbitrary keys. Plain string-keyed
// records can use map[string]any directly; Map exists for map-like values
// whose keys are not strings or whose order matters.
type Map []Entry

// Entry is a single Map key/value pair.
type Entry struct {
	Key   any
	Value any
}

// Set is a collection of distinct values.
type Set []any

// Func is the opaque placeholder a function-valued argument decodes to.
// It is not invocable across the process boundary.
type Func struct{}

// EncodeValues encodes an argument or result list to its wire form.
func EncodeValues(values []any) (json.RawMessage, error) {
	out := make([]any, len(values))
	for i, v := range values {
		enc, err := encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return marshal(out)
}

// DecodeValues decodes a wire-form list produced by EncodeValues.
func DecodeValues(raw json.RawMessage) ([]any, error) {
	var generic []any
	if err := unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf(messages.WireDecodeFmt, err)
	}
	out := make([]any, len(generic))
	for i, v := range generic {
		dec, err := decode(v)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

// EncodeValue encodes a single value to its wire form.
func EncodeValue(value any) (json.RawMessage, error) {
	enc, err := encode(value)
	if err != nil {
		return nil, err
	}
	return marshal(enc)
}

// DecodeValue decodes a single wire-form value.
func DecodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var generic any
	if err := unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf(messages.WireDecodeFmt, err)
	}
	return decode(generic)
}

func encode(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	case *url.URL:
		return map[string]any{tagKey: tagURL, "href": t.String()}, nil
	case url.URL:
		return map[string]any{tagKey: tagURL, "href": t.String()}, nil
	case time.Time:
		return map[string]any{tagKey: tagTime, "value": t.Format(time.RFC3339Nano)}, nil
	case Map:
		entries := make([]any, len(t))
		for i, e := range t {
			k, err := encode(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := encode(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = []any{k, val}
		}
		return map[string]any{tagKey: tagMap, "entries": entries}, nil
	case Set:
		values := make([]any, len(t))
		for i, e := range t {
			enc, err := encode(e)
			if err != nil {
				return nil, err
			}
			values[i] = enc
		}
		return map[string]any{tagKey: tagSet, "values": values}, nil
	case Func:
		return map[string]any{tagKey: tagFunc}, nil
	case map[string]any:
		return encodeObject(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			enc, err := encode(e)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}
	return encodeReflect(v)
}

// encodeObject encodes a string-keyed record, wrapping it when it collides
// with the tag key so decoding stays unambiguous.
func encodeObject(m map[string]any) (any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		enc, err := encode(v)
		if err != nil {
			return nil, err
		}
		out[k] = enc
	}
	if _, collides := m[tagKey]; collides {
		return map[string]any{tagKey: tagObj, "value": out}, nil
	}
	return out, nil
}

// encodeReflect handles the remaining shapes: function values become opaque
// placeholders, and slices, maps, and structs are flattened generically.
func encodeReflect(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return map[string]any{tagKey: tagFunc}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return encode(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			enc, err := encode(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = iter.Value().Interface()
			}
			return encodeObject(out)
		}
		return encodeGenericMap(rv)
	case reflect.Struct:
		return encodeStruct(v)
	}
	return nil, fmt.Errorf(messages.WireUnsupportedFmt, v)
}

// encodeGenericMap converts a non-string-keyed map to the tagged map form.
// Entries are ordered by their encoded key for deterministic output.
func encodeGenericMap(rv reflect.Value) (any, error) {
	entries := make(Map, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().Interface()
		switch reflect.ValueOf(key).Kind() {
		case reflect.Chan, reflect.Func:
			return nil, fmt.Errorf(messages.WireMapKeyFmt, key)
		}
		entries = append(entries, Entry{Key: key, Value: iter.Value().Interface()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].Key) < fmt.Sprint(entries[j].Key)
	})
	return encode(entries)
}

// encodeStruct round-trips a struct through encoding/json so field tags are
// honored, then re-encodes the generic form.
func encodeStruct(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf(messages.WireUnsupportedFmt, v)
	}
	var generic any
	if err := unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf(messages.WireUnsupportedFmt, v)
	}
	return encode(generic)
}

func decode(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if tag, ok := t[tagKey].(string); ok {
			return decodeTagged(tag, t)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			dec, err := decode(val)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			dec, err := decode(e)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	}
	return v, nil
}

func decodeTagged(tag string, obj map[string]any) (any, error) {
	switch tag {
	case tagURL:
		href, ok := obj["href"].(string)
		if !ok {
			return nil, fmt.Errorf(messages.WireBadTagFmt, tagURL)
		}
		u, err := url.Parse(href)
		if err != nil {
			return nil, fmt.Errorf(messages.WireInvalidURLFmt, href, err)
		}
		return u, nil
	case tagTime:
		value, ok := obj["value"].(string)
		if !ok {
			return nil, fmt.Errorf(messages.WireBadTagFmt, tagTime)
		}
		ts, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil, fmt.Errorf(messages.WireInvalidTimeFmt, value, err)
		}
		return ts, nil
	case tagMap:
		entries, ok := obj["entries"].([]any)
		if !ok {
			return nil, fmt.Errorf(messages.WireBadTagFmt, tagMap)
		}
		out := make(Map, 0, len(entries))
		for _, e := range entries {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf(messages.WireBadTagFmt, tagMap)
			}
			k, err := decode(pair[0])
			if err != nil {
				return nil, err
			}
			v, err := decode(pair[1])
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	case tagSet:
		values, ok := obj["values"].([]any)
		if !ok {
			return nil, fmt.Errorf(messages.WireBadTagFmt, tagSet)
		}
		out := make(Set, 0, len(values))
		for _, e := range values {
			dec, err := decode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, dec)
		}
		return out, nil
	case tagFunc:
		return Func{}, nil
	case tagObj:
		value, ok := obj["value"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf(messages.WireBadTagFmt, tagObj)
		}
		out := make(map[string]any, len(value))
		for k, v := range value {
			dec, err := decode(v)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	}
	return nil, fmt.Errorf(messages.WireUnknownTagFmt, tag)
}

// marshal serializes without HTML escaping so URLs survive untouched.
func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// unmarshal deserializes preserving number fidelity via json.Number.
func unmarshal(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}
