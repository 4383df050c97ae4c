package nvprof

import (
	"bytes"
	"encoding/json"
	"math"
)

// Record is a flattened profile row. Fields keep the order in which they
// were first set.
type Record struct {
	keys   []string
	values map[string]float64
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]float64)}
}

// Set stores v under key. An existing key is overwritten in place.
func (r *Record) Set(key string, v float64) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (float64, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Append copies every field of other into r, in other's order.
func (r *Record) Append(other *Record) {
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Each calls fn for every field in order.
func (r *Record) Each(fn func(key string, v float64)) {
	for _, k := range r.keys {
		fn(k, r.values[k])
	}
}

// MarshalJSON encodes the record as an object with fields in order.
// NaN and infinite values, which JSON cannot carry, are encoded as null.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := r.values[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fieldName builds the "{attribute}_{entity}" column label.
func fieldName(attribute, entity string) string {
	return attribute + "_" + entity
}
