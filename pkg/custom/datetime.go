package custom

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Datetime is a UTC timestamp stored as an RFC3339 string. The fixed layout keeps stored values
// ordered the same way lexicographically and chronologically.
type Datetime time.Time

// Now returns the current time truncated to the stored precision.
func Now() Datetime {
	return Datetime(time.Now().UTC().Truncate(time.Second))
}

// Time returns the underlying time.
func (d Datetime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the datetime is unset.
func (d Datetime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements the json.Marshaler interface.
func (d Datetime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`%q`, d.String())), nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (d Datetime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(d.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Datetime) UnmarshalJSON(text []byte) error {
	s := strings.Trim(string(text), `"`)
	if s == "" || s == "null" {
		*d = Datetime{}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid datetime: %w", err)
	}
	*d = Datetime(t.UTC())
	return nil
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface.
func (d *Datetime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*d = Datetime{}
		return nil
	case bson.TypeString:
		got, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("invalid datetime string")
		}
		parsed, err := time.Parse(time.RFC3339, got)
		if err != nil {
			return fmt.Errorf("invalid datetime: %s", got)
		}
		*d = Datetime(parsed.UTC())
		return nil
	case bson.TypeDateTime:
		*d = Datetime(raw.Time().UTC())
		return nil
	default:
		return fmt.Errorf("invalid bson type %s for datetime", t)
	}
}

// String implements the fmt.Stringer interface.
func (d Datetime) String() string {
	return time.Time(d).UTC().Format(time.RFC3339)
}
