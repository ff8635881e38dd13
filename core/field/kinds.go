package field

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// String returns a text field. Serialize renders any scalar as text;
// Deserialize only accepts text.
func String(opts ...Option) *Field {
	return newField(KindString, "Not a valid string.", toText, loadText, opts)
}

// Integer returns an integer field backed by int.
func Integer(opts ...Option) *Field {
	return newField(KindInteger, "Not a valid integer.", toInteger, toInteger, opts)
}

// Float returns a float64 field.
func Float(opts ...Option) *Field {
	return newField(KindFloat, "Not a valid number.", toFloat, toFloat, opts)
}

// Boolean returns a bool field.
func Boolean(opts ...Option) *Field {
	return newField(KindBoolean, "Not a valid boolean.", toBool, toBool, opts)
}

// Decimal returns an arbitrary precision decimal field.
func Decimal(opts ...Option) *Field {
	return newField(KindDecimal, "Not a valid decimal.", toDecimal, toDecimal, opts)
}

// UUID returns a field holding the canonical text form of a UUID.
func UUID(opts ...Option) *Field {
	return newField(KindUUID, "Not a valid UUID.", toUUID, toUUID, opts)
}

// DateTime returns a field that serializes to RFC 3339 text and loads into
// time.Time.
func DateTime(opts ...Option) *Field {
	return newField(KindDateTime, "Not a valid datetime.", formatTime, parseTime, opts)
}

// Email returns a text field whose loaded value must be a bare address.
func Email(opts ...Option) *Field {
	return newField(KindEmail, "Not a valid email address.", toText, loadEmail, opts)
}

// URL returns a text field whose loaded value must be an absolute URL.
func URL(opts ...Option) *Field {
	return newField(KindURL, "Not a valid URL.", toText, loadURL, opts)
}

// Raw returns a field that stores values as given.
func Raw(opts ...Option) *Field {
	return newField(KindRaw, "Invalid value.", identity, identity, opts)
}

// ByKind builds a built-in field from its kind name.
func ByKind(kind Kind, opts ...Option) (*Field, error) {
	switch kind {
	case KindString:
		return String(opts...), nil
	case KindInteger:
		return Integer(opts...), nil
	case KindFloat:
		return Float(opts...), nil
	case KindBoolean:
		return Boolean(opts...), nil
	case KindDecimal:
		return Decimal(opts...), nil
	case KindUUID:
		return UUID(opts...), nil
	case KindDateTime:
		return DateTime(opts...), nil
	case KindEmail:
		return Email(opts...), nil
	case KindURL:
		return URL(opts...), nil
	case KindRaw:
		return Raw(opts...), nil
	default:
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
}

// IsKnownKind reports whether ByKind can build kind.
func IsKnownKind(kind Kind) bool {
	switch kind {
	case KindString, KindInteger, KindFloat, KindBoolean, KindDecimal,
		KindUUID, KindDateTime, KindEmail, KindURL, KindRaw:
		return true
	default:
		return false
	}
}

func identity(v any) (any, error) { return v, nil }

func toText(v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case time.Time:
		return s.Format(time.RFC3339Nano), nil
	case bool:
		return strconv.FormatBool(s), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return nil, fmt.Errorf("cannot render %T as text", v)
	}
}

func loadText(v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return nil, fmt.Errorf("expected text, got %T", v)
	}
}

var errFraction = errors.New("value has a fractional part")

func toInteger(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return safecast.Convert[int](n)
	case uint:
		return safecast.Convert[int](n)
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return safecast.Convert[int](n)
	case uint64:
		return safecast.Convert[int](n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, err
		}
		return safecast.Convert[int](i)
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return nil, fmt.Errorf("cannot convert %T to integer", v)
	}
}

func floatToInt(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, errFraction
	}
	return safecast.Convert[int](f)
}

func toFloat(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return nil, fmt.Errorf("cannot convert %T to float", v)
	}
}

var (
	truthy = map[string]bool{"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true}
	falsy  = map[string]bool{"false": true, "f": true, "0": true, "no": true, "n": true, "off": true}
)

func toBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		if truthy[s] {
			return true, nil
		}
		if falsy[s] {
			return false, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %v to boolean", v)
}

func toDecimal(v any) (any, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("cannot represent %v as decimal", n)
		}
		return decimal.NewFromFloat(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	default:
		return nil, fmt.Errorf("cannot convert %T to decimal", v)
	}
}

func toUUID(v any) (any, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		return parsed.String(), nil
	case []byte:
		parsed, err := uuid.FromBytes(id)
		if err != nil {
			return nil, err
		}
		return parsed.String(), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to uuid", v)
	}
}

func parseTime(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
	default:
		return nil, fmt.Errorf("cannot convert %T to datetime", v)
	}
}

func formatTime(v any) (any, error) {
	t, err := parseTime(v)
	if err != nil {
		return nil, err
	}
	return t.(time.Time).Format(time.RFC3339Nano), nil
}

func loadEmail(v any) (any, error) {
	s, err := loadText(v)
	if err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(s.(string))
	if err != nil {
		return nil, err
	}
	if addr.Address != s.(string) {
		return nil, fmt.Errorf("%q is not a bare address", s)
	}
	return s, nil
}

func loadURL(v any) (any, error) {
	s, err := loadText(v)
	if err != nil {
		return nil, err
	}
	u, err := url.ParseRequestURI(s.(string))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", s)
	}
	return s, nil
}
