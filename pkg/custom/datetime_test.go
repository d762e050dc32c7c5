package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type datetimeDoc struct {
	At Datetime `json:"at" bson:"at"`
}

func TestDatetime_BSON(t *testing.T) {
	want := Datetime(time.Date(2023, 11, 5, 10, 30, 0, 0, time.UTC))

	raw, err := bson.Marshal(datetimeDoc{At: want})
	require.NoError(t, err)

	// Stored as a string so range queries compare lexicographically.
	require.Equal(t, bson.TypeString, bson.Raw(raw).Lookup("at").Type)
	require.Equal(t, "2023-11-05T10:30:00Z", bson.Raw(raw).Lookup("at").StringValue())

	got := new(datetimeDoc)
	require.NoError(t, bson.Unmarshal(raw, got))
	require.True(t, want.Time().Equal(got.At.Time()))
}

func TestDatetime_BSONZero(t *testing.T) {
	raw, err := bson.Marshal(datetimeDoc{})
	require.NoError(t, err)
	require.Equal(t, bson.TypeNull, bson.Raw(raw).Lookup("at").Type)

	got := new(datetimeDoc)
	require.NoError(t, bson.Unmarshal(raw, got))
	require.True(t, got.At.IsZero())
}

func TestDatetime_JSON(t *testing.T) {
	tests := []struct {
		name string
		in   datetimeDoc
		want string
	}{
		{
			name: "set",
			in:   datetimeDoc{At: Datetime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))},
			want: `{"at":"2020-01-01T00:00:00Z"}`,
		},
		{
			name: "zero",
			in:   datetimeDoc{},
			want: `{"at":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(got))

			back := new(datetimeDoc)
			require.NoError(t, json.Unmarshal(got, back))
			require.True(t, tt.in.At.Time().Equal(back.At.Time()))
		})
	}
}

func TestDatetime_UnmarshalJSONInvalid(t *testing.T) {
	d := new(Datetime)
	require.Error(t, d.UnmarshalJSON([]byte(`"yesterday"`)))
}
