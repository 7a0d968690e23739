package typemix

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// errMismatch marks a scalar that does not fit the declared kind.
type errMismatch struct{}

func (errMismatch) Error() string { return "type mismatch" }

// coerceScalar converts raw into a value of the scalar type t. Without force
// only same-family conversions are allowed (string to string, bool to bool,
// number to number when no precision or range is lost). With force the
// remaining cases go through mapstructure's weak decoding.
func coerceScalar(raw any, t reflect.Type, force bool) (reflect.Value, error) {
	rv := indirectValue(reflect.ValueOf(raw))
	if !rv.IsValid() {
		return reflect.Value{}, errMismatch{}
	}
	if v, handled, err := assignScalar(rv, t); handled {
		return v, err
	}
	if !force {
		return reflect.Value{}, errMismatch{}
	}
	out := reflect.New(t)
	if err := mapstructure.WeakDecode(rv.Interface(), out.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}

func assignScalar(rv reflect.Value, t reflect.Type) (reflect.Value, bool, error) {
	src := rv.Kind()
	switch t.Kind() {
	case reflect.String:
		if src == reflect.String {
			return rv.Convert(t), true, nil
		}
	case reflect.Bool:
		if src == reflect.Bool {
			return rv.Convert(t), true, nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out := reflect.New(t).Elem()
		switch {
		case isInt(src):
			if out.OverflowInt(rv.Int()) {
				return reflect.Value{}, true, fmt.Errorf("%d overflows %s", rv.Int(), t)
			}
			out.SetInt(rv.Int())
			return out, true, nil
		case isUint(src):
			if rv.Uint() > math.MaxInt64 || out.OverflowInt(int64(rv.Uint())) {
				return reflect.Value{}, true, fmt.Errorf("%d overflows %s", rv.Uint(), t)
			}
			out.SetInt(int64(rv.Uint()))
			return out, true, nil
		case isFloat(src):
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return reflect.Value{}, true, fmt.Errorf("%v is not an integer", f)
			}
			if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, true, fmt.Errorf("%v overflows %s", f, t)
			}
			out.SetInt(int64(f))
			return out, true, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out := reflect.New(t).Elem()
		switch {
		case isInt(src):
			if rv.Int() < 0 || out.OverflowUint(uint64(rv.Int())) {
				return reflect.Value{}, true, fmt.Errorf("%d overflows %s", rv.Int(), t)
			}
			out.SetUint(uint64(rv.Int()))
			return out, true, nil
		case isUint(src):
			if out.OverflowUint(rv.Uint()) {
				return reflect.Value{}, true, fmt.Errorf("%d overflows %s", rv.Uint(), t)
			}
			out.SetUint(rv.Uint())
			return out, true, nil
		case isFloat(src):
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return reflect.Value{}, true, fmt.Errorf("%v is not an integer", f)
			}
			if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, true, fmt.Errorf("%v overflows %s", f, t)
			}
			out.SetUint(uint64(f))
			return out, true, nil
		}
	case reflect.Float32, reflect.Float64:
		out := reflect.New(t).Elem()
		switch {
		case isInt(src):
			out.SetFloat(float64(rv.Int()))
		case isUint(src):
			out.SetFloat(float64(rv.Uint()))
		case isFloat(src):
			if out.OverflowFloat(rv.Float()) {
				return reflect.Value{}, true, fmt.Errorf("%v overflows %s", rv.Float(), t)
			}
			out.SetFloat(rv.Float())
		default:
			return reflect.Value{}, false, nil
		}
		return out, true, nil
	}
	return reflect.Value{}, false, nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
