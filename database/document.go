package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Document is one record as returned by the store. Drivers disagree on the
// Go type of a column (SQLite hands booleans back as int64, the REST store
// yields json.Number), so reads go through the typed accessors below.
type Document map[string]interface{}

func (d Document) ID() string {
	return d.String("id")
}

func (d Document) String(field string) string {
	switch v := d[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (d Document) Int(field string) int64 {
	switch v := d[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return int64(f)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	}
	return 0
}

func (d Document) Float(field string) float64 {
	switch v := d[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	}
	return 0
}

func (d Document) Bool(field string) bool {
	switch v := d[field].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		return v.String() != "0"
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// Time returns the zero time when the field is missing or unparseable.
func (d Document) Time(field string) time.Time {
	switch v := d[field].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
