package cache

import (
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/quasi/internal/core/domain"
)

const (
	unitSeparator = 0x1f
	leafSeparator = 0x00
)

// Fingerprint hashes the flattened leaves of key.
// Quasi-equal keys always share a fingerprint.
func Fingerprint(key any, opts ...domain.Option) (uint64, error) {
	d := xxhash.New()
	for leaf, err := range domain.Flatten(key, opts...) {
		if err != nil {
			return 0, err
		}
		writeLeaf(d, leaf)
	}
	return d.Sum64(), nil
}

// writeLeaf renders v so that leaves equal under domain.LeafEqual render identically.
// Values whose equality cannot be rendered exactly contribute only their type.
func writeLeaf(d *xxhash.Digest, v any) {
	buf := make([]byte, 0, 64)
	buf = appendLeaf(buf, v)
	buf = append(buf, leafSeparator)
	_, _ = d.Write(buf)
}

func appendLeaf(buf []byte, v any) []byte {
	if isNull(v) {
		return append(buf, "nil"...)
	}

	rv := reflect.ValueOf(v)
	buf = append(buf, rv.Type().String()...)
	buf = append(buf, unitSeparator)

	if t, ok := v.(time.Time); ok {
		return t.UTC().AppendFormat(buf, time.RFC3339Nano)
	}
	if rv.MethodByName("Equal").IsValid() {
		return buf
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(buf, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(buf, rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(buf, rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return appendFloat(buf, rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		buf = appendFloat(buf, real(c))
		buf = append(buf, unitSeparator)
		return appendFloat(buf, imag(c))
	case reflect.String:
		return append(buf, rv.String()...)
	case reflect.Chan, reflect.UnsafePointer:
		return strconv.AppendUint(buf, uint64(rv.Pointer()), 16)
	default:
		return buf
	}
}

func appendFloat(buf []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(buf, "NaN"...)
	case f == 0:
		// Collapses -0 onto 0.
		return append(buf, '0')
	default:
		return strconv.AppendFloat(buf, f, 'g', -1, 64)
	}
}
