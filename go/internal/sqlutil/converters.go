package sqlutil

import (
	"fmt"
	"strconv"
)

// Helper functions for converting pgx row values into Go types.
// pgx decodes int4 as int32, int8 as int64, int2 as int16 and text as string;
// NULL arrives as nil.

// ToInt64 converts an integer row value to int64
func ToInt64(val any) (int64, error) {
	switch v := val.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int:
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %q as integer: %w", v, err)
		}
		return i, nil
	case nil:
		return 0, fmt.Errorf("unexpected NULL integer")
	default:
		return 0, fmt.Errorf("unsupported integer type %T", val)
	}
}

// ToInt32 converts an integer row value to int32
func ToInt32(val any) (int32, error) {
	i, err := ToInt64(val)
	if err != nil {
		return 0, err
	}
	return int32(i), nil
}

// ToInt32Ptr converts a nullable integer row value to an int32 pointer
func ToInt32Ptr(val any) (*int32, error) {
	if val == nil {
		return nil, nil
	}
	i, err := ToInt32(val)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ToStringPtr converts a nullable text row value to a string pointer
func ToStringPtr(val any) *string {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return &v
	case []byte:
		s := string(v)
		return &s
	default:
		s := fmt.Sprint(v)
		return &s
	}
}

// FromInt32Ptr converts an int32 pointer to a bind argument, nil meaning NULL
func FromInt32Ptr(val *int32) any {
	if val == nil {
		return nil
	}
	return *val
}
