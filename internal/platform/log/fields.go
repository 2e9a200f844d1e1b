package log

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// toFields converts alternating key/value arguments into zap fields.
// A bare error becomes zap.Error, a zap.Field passes through, and a trailing
// unpaired value is kept under an "arg#N" key so nothing is dropped.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		if f, ok := args[i].(zap.Field); ok {
			fields = append(fields, f)
			i++
			continue
		}
		if err, ok := args[i].(error); ok {
			fields = append(fields, zap.Error(err))
			i++
			continue
		}
		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		k, ok := key.(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("invalid_key_%d", i/2), map[string]any{
				"key":   key,
				"value": val,
			}))
			continue
		}

		switch v := val.(type) {
		case string:
			fields = append(fields, zap.String(k, v))
		case bool:
			fields = append(fields, zap.Bool(k, v))
		case int:
			fields = append(fields, zap.Int(k, v))
		case int64:
			fields = append(fields, zap.Int64(k, v))
		case float64:
			fields = append(fields, zap.Float64(k, v))
		case time.Duration:
			fields = append(fields, zap.Duration(k, v))
		case time.Time:
			fields = append(fields, zap.Time(k, v))
		case error:
			fields = append(fields, zap.NamedError(k, v))
		case fmt.Stringer:
			fields = append(fields, zap.Stringer(k, v))
		default:
			fields = append(fields, zap.Any(k, v))
		}
	}

	return fields
}
