package typemix

import "sort"

// List is an ordered sequence whose element type is carried statically so
// the binder and projector can re-traverse it.
type List[T any] []T

// Get returns the element at i, or None when i is out of range. Negative
// indexes count from the end.
func (l List[T]) Get(i int) Option[T] {
	if i < 0 {
		i += len(l)
	}
	if i < 0 || i >= len(l) {
		return None[T]()
	}
	return Some(l[i])
}

// Head returns the first element, if any.
func (l List[T]) Head() Option[T] { return l.Get(0) }

// Size returns the number of elements.
func (l List[T]) Size() int { return len(l) }

// Find returns the first element satisfying pred.
func (l List[T]) Find(pred func(T) bool) Option[T] {
	for _, v := range l {
		if pred(v) {
			return Some(v)
		}
	}
	return None[T]()
}

// Dict is a string-keyed mapping whose value type is carried statically.
type Dict[T any] map[string]T

// Get returns the value stored under k, if any.
func (d Dict[T]) Get(k string) Option[T] {
	v, ok := d[k]
	return OptionOf(v, ok)
}

// Size returns the number of entries.
func (d Dict[T]) Size() int { return len(d) }

// Keys returns the keys in ascending order.
func (d Dict[T]) Keys() []string {
	ks := make([]string, 0, len(d))
	for k := range d {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
