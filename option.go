package typemix

import "reflect"

// Option holds either a value (Some) or nothing (None).
//
// Option has no equality, ordering or truthiness helpers, and == on it does
// not compile. Read it through Get, GetOr, IsNone or Any; Some(0) and
// Some("") are present values.
type Option[T any] struct {
	_     [0]func() // not comparable
	value T
	ok    bool
}

// Some wraps v as a present value.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns the absent Option for T.
func None[T any]() Option[T] { return Option[T]{} }

// OptionOf builds an Option from the comma-ok idiom.
func OptionOf[T any](v T, ok bool) Option[T] {
	if !ok {
		return Option[T]{}
	}
	return Option[T]{value: v, ok: true}
}

// FromPtr returns None for a nil pointer and Some(*p) otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return Option[T]{}
	}
	return Option[T]{value: *p, ok: true}
}

// Get returns the wrapped value and whether it is present. The zero value of
// T is returned for None.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// MustGet returns the wrapped value and panics on None. Calling it on None is
// a programming error; prefer Get or GetOr.
func (o Option[T]) MustGet() T {
	if !o.ok {
		panic("typemix: MustGet called on None")
	}
	return o.value
}

// GetOr returns the wrapped value or d when absent. It never panics.
func (o Option[T]) GetOr(d T) T {
	if !o.ok {
		return d
	}
	return o.value
}

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool { return !o.ok }

// Any reports whether the Option holds a value.
func (o Option[T]) Any() bool { return o.ok }

// Ptr returns a pointer to a copy of the value, or nil for None.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

// MapOption applies f to the value of o when present.
func MapOption[T, U any](o Option[T], f func(T) U) Option[U] {
	if !o.ok {
		return Option[U]{}
	}
	return Some(f(o.value))
}

// FlatMapOption applies f, which itself returns an Option, flattening one level.
func FlatMapOption[T, U any](o Option[T], f func(T) Option[U]) Option[U] {
	if !o.ok {
		return Option[U]{}
	}
	return f(o.value)
}

// optionSlot is implemented by *Option[T]; the binder uses it to fill an
// Option whose T is only known through reflection.
type optionSlot interface {
	optionElem() reflect.Type
	setSome(v reflect.Value)
}

// optionView is implemented by Option[T]; the projector uses it to unwrap.
type optionView interface {
	optionValue() (reflect.Value, bool)
}

func (o *Option[T]) optionElem() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (o *Option[T]) setSome(v reflect.Value) {
	reflect.ValueOf(&o.value).Elem().Set(v)
	o.ok = true
}

func (o Option[T]) optionValue() (reflect.Value, bool) {
	if !o.ok {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(&o.value).Elem(), true
}

var (
	optionSlotType = reflect.TypeOf((*optionSlot)(nil)).Elem()
	optionViewType = reflect.TypeOf((*optionView)(nil)).Elem()
)

func isOptionType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(optionSlotType)
}
