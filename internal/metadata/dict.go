package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
)

// ErrReservedName indicates an attribute-style write targeting a name on the
// Dict method surface. Such keys remain reachable through Set/Get.
var ErrReservedName = errors.New("reserved name, use key-based access")

// ErrAttrNotFound indicates an attribute-style read that matched neither a
// method nor a stored key.
var ErrAttrNotFound = errors.New("attribute not found")

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames is the Dict method set, computed once at init so the reserved
// surface always tracks the actual type.
var reservedNames = computeReservedNames()

func computeReservedNames() map[string]struct{} {
	t := reflect.TypeOf((*Dict)(nil))
	names := make(map[string]struct{}, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		names[t.Method(i).Name] = struct{}{}
	}
	return names
}

// Dict is an ordered string-keyed container. Insertion order is preserved;
// overwriting an existing key keeps its position.
type Dict struct {
	order  []string
	values map[string]any
}

// New returns an empty Dict.
func New() *Dict {
	return &Dict{values: make(map[string]any)}
}

// NewFromMap builds a Dict from a plain map, copying one level deep: values
// that are themselves maps become nested Dicts, all other values are aliased.
// Map iteration order is not stable in Go, so keys are inserted sorted.
func NewFromMap(m map[string]any) *Dict {
	d := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Set(k, convertNested(m[k]))
	}
	return d
}

func convertNested(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return NewFromMap(val)
	default:
		return v
	}
}

// Set stores value under key, appending the key when new.
func (d *Dict) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.order = append(d.order, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes key, preserving the order of the remaining keys.
func (d *Dict) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of stored keys.
func (d *Dict) Len() int {
	return len(d.order)
}

// Keys returns the stored keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// GetAttr resolves name attribute-style: the Dict method surface wins, then
// stored keys, otherwise ErrAttrNotFound. Keys shadowed by a method name stay
// reachable through Get.
func (d *Dict) GetAttr(name string) (any, error) {
	if _, ok := reservedNames[name]; ok {
		return reflect.ValueOf(d).MethodByName(name).Interface(), nil
	}
	if v, ok := d.values[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAttrNotFound, name)
}

// SetAttr stores value under name unless name collides with the Dict method
// surface, in which case the container is left unchanged and ErrReservedName
// is returned.
func (d *Dict) SetAttr(name string, value any) error {
	if _, ok := reservedNames[name]; ok {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	d.Set(name, value)
	return nil
}

// AttrNames returns the reserved method names together with every stored key
// that is shaped like an identifier. Intended for introspection; order is
// unspecified.
func (d *Dict) AttrNames() []string {
	names := make([]string, 0, len(reservedNames)+len(d.order))
	for name := range reservedNames {
		names = append(names, name)
	}
	for _, k := range d.order {
		if identifierRe.MatchString(k) {
			names = append(names, k)
		}
	}
	return names
}

// Copy returns a one-level deep copy: nested Dict and map values are
// re-wrapped so mutating a child of the copy leaves the original's child
// untouched, while all other values are aliased.
func (d *Dict) Copy() *Dict {
	out := New()
	for _, k := range d.order {
		v := d.values[k]
		switch val := v.(type) {
		case *Dict:
			v = val.shallowCopy()
		case map[string]any:
			v = NewFromMap(val)
		}
		out.Set(k, v)
	}
	return out
}

func (d *Dict) shallowCopy() *Dict {
	out := New()
	for _, k := range d.order {
		out.Set(k, d.values[k])
	}
	return out
}
