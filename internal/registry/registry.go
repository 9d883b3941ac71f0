// Package registry holds the descriptors for every configurable value in
// the program and provides typed get/set/schema/clamp operations.
//
// Descriptors are registered once at startup from an explicit table (see
// fields.go); after that only values mutate. Set semantics are best
// effort: a malformed web request can never crash the host, it just gets
// a false back.
package registry

import (
	"fmt"
	"math"
	"strconv"
	"sync"
)

// ValueType is the semantic type of a configurable field.
type ValueType string

const (
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeDouble ValueType = "double"
	TypeBool   ValueType = "bool"
	TypeString ValueType = "string"
	TypeColor  ValueType = "color"
)

// Validator sanitizes or rejects a converted value for one field.
// Returning false rejects the write outright; the returned value may
// differ from the input (e.g. a trimmed host address).
type Validator func(value interface{}) (interface{}, bool)

// FieldDescriptor describes one configurable value. Path is globally
// unique and stable across runs; it is the persistence key.
type FieldDescriptor struct {
	Path            string    `json:"path"` // "Group/name"
	DisplayName     string    `json:"displayName"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Type            ValueType `json:"valueType"`
	ControlHint     string    `json:"controlHint,omitempty"`
	Min             *float64  `json:"min,omitempty"`
	Max             *float64  `json:"max,omitempty"`
	Step            *float64  `json:"step,omitempty"`
	RequiresRestart bool      `json:"requiresRestart"`
	Order           int       `json:"order"`
	Options         []string  `json:"options,omitempty"`

	Default   interface{} `json:"-"`
	Validator Validator   `json:"-"`
}

// ErrNotFound is returned by GetValue for an unknown path.
type ErrNotFound struct{ Path string }

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("config path not found: %s", e.Path)
}

// Registry is the field-level configuration registry. Value access is
// serialized by a single lock; descriptor shape never changes after the
// registration phase.
type Registry struct {
	mu          sync.RWMutex
	descriptors []*FieldDescriptor
	byPath      map[string]*FieldDescriptor
	values      map[string]interface{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byPath: make(map[string]*FieldDescriptor),
		values: make(map[string]interface{}),
	}
}

// Register adds a descriptor and seeds its value from Default.
// Registration happens at startup only.
func (r *Registry) Register(d *FieldDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.Path == "" {
		return fmt.Errorf("descriptor has empty path")
	}
	if _, exists := r.byPath[d.Path]; exists {
		return fmt.Errorf("duplicate config path: %s", d.Path)
	}

	value, ok := convertValue(d.Type, d.Default)
	if !ok {
		return fmt.Errorf("default for %s does not convert to %s", d.Path, d.Type)
	}

	r.descriptors = append(r.descriptors, d)
	r.byPath[d.Path] = d
	r.values[d.Path] = clampValue(d, value)
	return nil
}

// GetValue returns the current value for a path.
func (r *Registry) GetValue(path string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[path]
	if !ok {
		return nil, &ErrNotFound{Path: path}
	}
	return value, nil
}

// Descriptor returns the descriptor for a path.
func (r *Registry) Descriptor(path string) (*FieldDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byPath[path]
	return d, ok
}

// SetValue converts raw to the field's semantic type, runs the field's
// validator if present, clamps to [min,max] when both are defined and
// writes the value. Returns false without mutating state on any
// conversion or validation failure. Validation runs before clamping:
// syntactically invalid input is rejected outright, in-range-adjacent
// numeric input is silently repaired.
func (r *Registry) SetValue(path string, raw interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byPath[path]
	if !ok {
		return false
	}

	value, ok := convertValue(d.Type, raw)
	if !ok {
		return false
	}

	if d.Validator != nil {
		value, ok = d.Validator(value)
		if !ok {
			return false
		}
	}

	r.values[path] = clampValue(d, value)
	return true
}

// GetAllValues exports a copy of every current value keyed by path.
func (r *Registry) GetAllValues() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]interface{}, len(r.values))
	for path, value := range r.values {
		out[path] = value
	}
	return out
}

// ApplyValues bulk-imports values, typically from a persisted snapshot.
// Unknown paths and unconvertible values are skipped, never fatal.
// Returns the number of values applied.
func (r *Registry) ApplyValues(values map[string]interface{}) int {
	applied := 0
	for path, raw := range values {
		if r.SetValue(path, raw) {
			applied++
		}
	}
	return applied
}

// ResetToDefaults restores every field to its registered default.
func (r *Registry) ResetToDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.descriptors {
		if value, ok := convertValue(d.Type, d.Default); ok {
			r.values[d.Path] = clampValue(d, value)
		}
	}
}

// convertValue coerces raw into the Go representation for t: int64 for
// int, float64 for float/double, bool, string for string/color. JSON
// decoding hands numbers over as float64 and the web UI sometimes sends
// numerics as strings, so both are accepted.
func convertValue(t ValueType, raw interface{}) (interface{}, bool) {
	switch t {
	case TypeInt:
		switch v := raw.(type) {
		case int:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			return int64(math.Round(v)), true
		case float32:
			return int64(math.Round(float64(v))), true
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		}
	case TypeFloat, TypeDouble:
		switch v := raw.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, false
			}
			return f, true
		}
	case TypeBool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, false
			}
			return b, true
		case float64:
			return v != 0, true
		case int:
			return v != 0, true
		case int64:
			return v != 0, true
		}
	case TypeString, TypeColor:
		if v, ok := raw.(string); ok {
			return v, true
		}
	}
	return nil, false
}

// clampValue repairs a numeric value to the descriptor's [min,max] when
// both bounds are defined. Non-numeric values pass through.
func clampValue(d *FieldDescriptor, value interface{}) interface{} {
	if d.Min == nil || d.Max == nil {
		return value
	}
	switch v := value.(type) {
	case int64:
		if float64(v) < *d.Min {
			return int64(*d.Min)
		}
		if float64(v) > *d.Max {
			return int64(*d.Max)
		}
		return v
	case float64:
		if v < *d.Min {
			return *d.Min
		}
		if v > *d.Max {
			return *d.Max
		}
		return v
	}
	return value
}
