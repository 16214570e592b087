package hashpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Value is the value of one option. It is either a single string or, when
// the key occurred more than once, an ordered list of strings.
type Value struct {
	vals  []string
	multi bool
}

// Single returns a single-string Value.
func Single(s string) Value {
	return Value{vals: []string{s}}
}

// Multi returns a list Value holding vals in order.
func Multi(vals ...string) Value {
	out := make([]string, len(vals))
	copy(out, vals)
	return Value{vals: out, multi: true}
}

// IsMulti reports whether v is a list.
func (v Value) IsMulti() bool { return v.multi }

// String returns the single value, or the first element of a list. An empty
// list yields "".
func (v Value) String() string {
	if len(v.vals) == 0 {
		return ""
	}
	return v.vals[0]
}

// Values returns a copy of the values. A single value is returned as a
// one-element slice.
func (v Value) Values() []string {
	out := make([]string, len(v.vals))
	copy(out, v.vals)
	return out
}

// Len returns the number of values.
func (v Value) Len() int { return len(v.vals) }

// Equal reports whether v and other have the same shape and values.
func (v Value) Equal(other Value) bool {
	if v.multi != other.multi || len(v.vals) != len(other.vals) {
		return false
	}
	for i := range v.vals {
		if v.vals[i] != other.vals[i] {
			return false
		}
	}
	return true
}

// with returns v extended by s. A single value becomes a two-element list.
func (v Value) with(s string) Value {
	out := make([]string, len(v.vals), len(v.vals)+1)
	copy(out, v.vals)
	return Value{vals: append(out, s), multi: true}
}

// Options maps option keys to values and remembers the order in which keys
// were first added. Encode writes keys in that order.
//
// The zero value is an empty set of options ready to use. Options behaves as
// a value: Set, Add and Del never write to storage shared with a copy.
type Options struct {
	keys   []string
	values map[string]Value
}

// OptionsFrom builds Options from single string values. Keys are added in
// sorted order so the result encodes deterministically.
func OptionsFrom(m map[string]string) Options {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var o Options
	for _, k := range keys {
		o.set(k, Single(m[k]))
	}
	return o
}

// Len returns the number of keys.
func (o Options) Len() int { return len(o.keys) }

// Keys returns the keys in order.
func (o Options) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value stored for key.
func (o Options) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Lookup returns the first value for key, or "" when key is absent.
func (o Options) Lookup(key string) string {
	return o.values[key].String()
}

// Set stores v under key, replacing any previous value. A new key goes to
// the end of the order; an existing key keeps its position.
func (o *Options) Set(key string, v Value) {
	o.own()
	o.set(key, v)
}

// Add appends s to key. The first occurrence stores a single value, the
// second turns it into a two-element list, later ones extend the list.
func (o *Options) Add(key, s string) {
	o.own()
	o.add(key, s)
}

// Del removes key.
func (o *Options) Del(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	o.own()
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// own gives o private storage before a write.
func (o *Options) own() {
	keys := make([]string, len(o.keys), len(o.keys)+1)
	copy(keys, o.keys)
	values := make(map[string]Value, len(o.values)+1)
	for k, v := range o.values {
		values[k] = v
	}
	o.keys, o.values = keys, values
}

// set and add write in place; callers must own o's storage.
func (o *Options) set(key string, v Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Options) add(key, s string) {
	existing, ok := o.values[key]
	if !ok {
		o.set(key, Single(s))
		return
	}
	o.values[key] = existing.with(s)
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	var out Options
	for _, k := range o.keys {
		v := o.values[k]
		out.set(k, Value{vals: v.Values(), multi: v.multi})
	}
	return out
}

// Equal reports whether o and other hold the same keys with equal values.
// Key order is not compared.
func (o Options) Equal(other Options) bool {
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Encode returns the query string for o, without a leading "?". Every value
// of a list becomes its own key=value term.
func (o Options) Encode() string {
	var b strings.Builder
	for _, k := range o.keys {
		ek := Escape(k)
		for _, v := range o.values[k].vals {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(Escape(v))
		}
	}
	return b.String()
}

// String implements fmt.Stringer for debugging.
func (o Options) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		v := o.values[k]
		if v.multi {
			fmt.Fprintf(&b, "%q: %q", k, v.vals)
		} else {
			fmt.Fprintf(&b, "%q: %q", k, v.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes o as a JSON object in key order. Lists become arrays.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := o.values[k]
		var val []byte
		if v.multi {
			val, err = json.Marshal(v.Values())
		} else {
			val, err = json.Marshal(v.String())
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings and string arrays,
// preserving the key order of the document. null decodes to empty options.
func (o *Options) UnmarshalJSON(data []byte) error {
	*o = Options{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("hashpath: options must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("hashpath: invalid option key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var vals []string
			if err := json.Unmarshal(trimmed, &vals); err != nil {
				return fmt.Errorf("hashpath: option %q: %w", key, err)
			}
			o.set(key, Multi(vals...))
			continue
		}
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("hashpath: option %q: %w", key, err)
		}
		o.set(key, Single(s))
	}

	_, err = dec.Token()
	return err
}
