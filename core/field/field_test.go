package field

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingSentinel(t *testing.T) {
	assert.True(t, IsMissing(Missing))
	assert.False(t, IsMissing(nil))
	assert.False(t, IsMissing(""))
	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(false))
	assert.Equal(t, "<missing>", Missing.(interface{ String() string }).String())
}

func TestSerialize_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		in    any
		want  any
	}{
		{"int to string", String(), 735734, "735734"},
		{"float to string", String(), 1.5, "1.5"},
		{"bool to string", String(), true, "true"},
		{"digit string to integer", Integer(), "100", 100},
		{"padded digit string to integer", Integer(), " 42 ", 42},
		{"integral float to integer", Integer(), float64(7), 7},
		{"int64 to integer", Integer(), int64(12), 12},
		{"json number to integer", Integer(), json.Number("9"), 9},
		{"string to float", Float(), "2.25", 2.25},
		{"int to float", Float(), 3, float64(3)},
		{"yes to boolean", Boolean(), "yes", true},
		{"zero to boolean", Boolean(), 0, false},
		{"string to decimal", Decimal(), "10.50", decimal.RequireFromString("10.50")},
		{"uuid to text", UUID(), uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"uppercase uuid normalized", UUID(), "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"time to text", DateTime(), time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), "2020-01-02T03:04:05Z"},
		{"raw passes through", Raw(), []int{1, 2}, []int{1, 2}},
		{"nil stays nil", Integer(), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Serialize(tt.in)
			require.NoError(t, err)
			if d, ok := tt.want.(decimal.Decimal); ok {
				assert.True(t, d.Equal(got.(decimal.Decimal)))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialize_Failure(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		in    any
	}{
		{"text to integer", Integer(), "string"},
		{"fractional float to integer", Integer(), 1.5},
		{"map to integer", Integer(), map[string]any{}},
		{"bad uuid", UUID(), "not-a-uuid"},
		{"bad boolean", Boolean(), "maybe"},
		{"map to string", String(), map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.field.Serialize(tt.in)
			require.Error(t, err)

			var serr *SerializationError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.field.Kind(), serr.Kind)
			assert.Equal(t, tt.in, serr.Value)
		})
	}
}

func TestSerialize_Default(t *testing.T) {
	t.Run("no default yields missing", func(t *testing.T) {
		got, err := String().Serialize(Missing)
		require.NoError(t, err)
		assert.True(t, IsMissing(got))
	})

	t.Run("falsy default is a value", func(t *testing.T) {
		got, err := Integer(WithDefault(0)).Serialize(Missing)
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("default is coerced", func(t *testing.T) {
		got, err := Integer(WithDefault("2017")).Serialize(Missing)
		require.NoError(t, err)
		assert.Equal(t, 2017, got)
	})

	t.Run("missing value is not a default", func(t *testing.T) {
		got, err := Integer(WithMissing(5)).Serialize(Missing)
		require.NoError(t, err)
		assert.True(t, IsMissing(got))
	})

	t.Run("callable default is called per resolution", func(t *testing.T) {
		calls := 0
		f := Integer(WithDefault(func() any {
			calls++
			return calls
		}))

		first, err := f.Serialize(Missing)
		require.NoError(t, err)
		second, err := f.Serialize(Missing)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
	})
}

func TestDeserialize(t *testing.T) {
	t.Run("absent optional field stays missing", func(t *testing.T) {
		got, errs := String().Deserialize(Missing)
		assert.Empty(t, errs)
		assert.True(t, IsMissing(got))
	})

	t.Run("absent required field", func(t *testing.T) {
		got, errs := String(Required()).Deserialize(Missing)
		assert.Equal(t, []string{MsgRequired}, errs)
		assert.True(t, IsMissing(got))
	})

	t.Run("missing value wins over required", func(t *testing.T) {
		got, errs := Integer(Required(), WithMissing(18)).Deserialize(Missing)
		assert.Empty(t, errs)
		assert.Equal(t, 18, got)
	})

	t.Run("default is not injected on load", func(t *testing.T) {
		got, errs := Integer(WithDefault(3)).Deserialize(Missing)
		assert.Empty(t, errs)
		assert.True(t, IsMissing(got))
	})

	t.Run("required with only a default still fails", func(t *testing.T) {
		_, errs := Integer(Required(), WithDefault(3)).Deserialize(Missing)
		assert.Equal(t, []string{MsgRequired}, errs)
	})

	t.Run("null rejected", func(t *testing.T) {
		_, errs := String().Deserialize(nil)
		assert.Equal(t, []string{MsgNull}, errs)
	})

	t.Run("null allowed", func(t *testing.T) {
		got, errs := String(AllowNone()).Deserialize(nil)
		assert.Empty(t, errs)
		assert.Nil(t, got)
	})

	t.Run("string only accepts text on load", func(t *testing.T) {
		_, errs := String().Deserialize(12)
		assert.Equal(t, []string{"Not a valid string."}, errs)
	})

	t.Run("integer rejects a mapping", func(t *testing.T) {
		_, errs := Integer().Deserialize(map[string]any{})
		assert.Equal(t, []string{"Not a valid integer."}, errs)
	})

	t.Run("datetime loads into time", func(t *testing.T) {
		got, errs := DateTime().Deserialize("2021-06-01T10:00:00Z")
		assert.Empty(t, errs)
		want := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)
		assert.True(t, want.Equal(got.(time.Time)))
	})

	t.Run("email", func(t *testing.T) {
		_, errs := Email().Deserialize("user@example.com")
		assert.Empty(t, errs)

		_, errs = Email().Deserialize("User <user@example.com>")
		assert.Equal(t, []string{"Not a valid email address."}, errs)
	})

	t.Run("url", func(t *testing.T) {
		_, errs := URL().Deserialize("https://example.com/x")
		assert.Empty(t, errs)

		_, errs = URL().Deserialize("/relative")
		assert.Equal(t, []string{"Not a valid URL."}, errs)
	})

	t.Run("validators collect every message", func(t *testing.T) {
		f := String(WithValidators(
			Constraint{Type: ConstraintMinLength, Value: 5},
			Constraint{Type: ConstraintPattern, Value: "^[a-z]+$"},
		))
		_, errs := f.Deserialize("AB")
		assert.Equal(t, []string{
			"Shorter than minimum length 5.",
			"String does not match expected pattern.",
		}, errs)
	})

	t.Run("validator func", func(t *testing.T) {
		even := ValidatorFunc(func(v any) error {
			if v.(int)%2 != 0 {
				return errors.New("Must be even.")
			}
			return nil
		})
		_, errs := Integer(WithValidators(even)).Deserialize("3")
		assert.Equal(t, []string{"Must be even."}, errs)

		got, errs := Integer(WithValidators(even)).Deserialize("4")
		assert.Empty(t, errs)
		assert.Equal(t, 4, got)
	})
}

func TestByKind(t *testing.T) {
	for _, kind := range []Kind{
		KindString, KindInteger, KindFloat, KindBoolean, KindDecimal,
		KindUUID, KindDateTime, KindEmail, KindURL, KindRaw,
	} {
		f, err := ByKind(kind, Required())
		require.NoError(t, err, kind)
		assert.Equal(t, kind, f.Kind())
		assert.True(t, f.IsRequired())
		assert.True(t, IsKnownKind(kind))
	}

	_, err := ByKind(KindNested)
	assert.Error(t, err)
	_, err = ByKind("complex")
	assert.Error(t, err)
	assert.False(t, IsKnownKind("complex"))
}

func TestFieldMetadata(t *testing.T) {
	f := Integer(WithDefault(1), WithMissing(2), AllowNone())
	assert.True(t, f.HasDefault())
	assert.True(t, f.HasMissing())
	assert.True(t, f.AllowsNone())
	assert.Equal(t, 1, f.DefaultValue())
	assert.Equal(t, 2, f.MissingValue())

	bare := String()
	assert.False(t, bare.HasDefault())
	assert.True(t, IsMissing(bare.DefaultValue()))
	assert.True(t, IsMissing(bare.MissingValue()))
	assert.Equal(t, "field.string", bare.String())
}
