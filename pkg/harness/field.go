package harness

// PerWire holds a cable attribute that is either one value for the whole
// cable or one value per wire. Only bundles may use the per-wire form.
type PerWire[T any] struct {
	scalar  T
	list    []T
	perWire bool
}

// Scalar returns a field with one value for the whole cable.
func Scalar[T any](v T) PerWire[T] {
	return PerWire[T]{scalar: v}
}

// List returns a field with one value per wire, in wire order.
func List[T any](vs []T) PerWire[T] {
	cp := make([]T, len(vs))
	copy(cp, vs)
	return PerWire[T]{list: cp, perWire: true}
}

// IsPerWire reports whether the field holds a per-wire list.
func (f PerWire[T]) IsPerWire() bool {
	return f.perWire
}

// Len returns the number of per-wire entries, or 0 for a scalar.
func (f PerWire[T]) Len() int {
	return len(f.list)
}

// Value returns the scalar value. ok is false for per-wire fields.
func (f PerWire[T]) Value() (v T, ok bool) {
	if f.perWire {
		return v, false
	}
	return f.scalar, true
}

// Resolve returns the value for the wire at index i (0-based): the scalar
// for every wire, or the i-th list element. Out-of-range indices give the
// zero value.
func (f PerWire[T]) Resolve(i int) T {
	if !f.perWire {
		return f.scalar
	}
	if i < 0 || i >= len(f.list) {
		var zero T
		return zero
	}
	return f.list[i]
}
