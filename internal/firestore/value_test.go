package firestore_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rikulab/recruit-notify/internal/firestore"
)

func TestValueEncoding(t *testing.T) {
	buf, err := json.Marshal(firestore.Integer(1719999999000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"integerValue":"1719999999000"}`, string(buf), "integers travel as decimal strings")

	buf, err = json.Marshal(firestore.String("pending"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"stringValue":"pending"}`, string(buf))

	buf, err = json.Marshal(firestore.Boolean(true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"booleanValue":true}`, string(buf))
}

func TestValueSingleTag(t *testing.T) {
	// Exactly one tag must survive marshalling; the store rejects more.
	for name, v := range map[string]firestore.Value{
		"string":  firestore.String("x"),
		"integer": firestore.Integer(1),
		"boolean": firestore.Boolean(false),
		"map":     firestore.Map(map[string]firestore.Value{"a": firestore.String("b")}),
	} {
		buf, err := json.Marshal(v)
		require.NoError(t, err, name)
		var tags map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buf, &tags), name)
		assert.Len(t, tags, 1, name)
	}
}

func TestValueDecodingDefaults(t *testing.T) {
	var v firestore.Value
	require.NoError(t, json.Unmarshal([]byte(`{"stringValue":"hello"}`), &v))
	assert.Equal(t, "hello", v.Str())
	assert.Zero(t, v.Int(), "mistyped access yields the zero value")
	assert.False(t, v.Bool())
	assert.Nil(t, v.MapFields())

	require.NoError(t, json.Unmarshal([]byte(`{"integerValue":"42"}`), &v))
	assert.Equal(t, int64(42), v.Int())
	assert.Empty(t, v.Str())

	require.NoError(t, json.Unmarshal([]byte(`{"integerValue":"not-a-number"}`), &v))
	assert.Zero(t, v.Int(), "unparseable integers decode to 0, not an error")
}

func TestFieldsLookups(t *testing.T) {
	var doc firestore.Document
	raw := `{
		"name": "projects/p/databases/(default)/documents/accounts/u1/scheduled_tasks/t1",
		"fields": {
			"status":   {"stringValue": "pending"},
			"nextRun":  {"integerValue": "1719990000000"},
			"enabled":  {"booleanValue": true},
			"applicantDetail": {"mapValue": {"fields": {
				"name":  {"stringValue": "鈴木"},
				"age":   {"integerValue": "20"}
			}}}
		}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "t1", doc.ID())
	assert.Equal(t, "pending", doc.Fields.Str("status"))
	assert.Equal(t, int64(1719990000000), doc.Fields.Int("nextRun"))
	assert.True(t, doc.Fields.Bool("enabled"))

	// StringMap keeps string entries only.
	detail := doc.Fields.StringMap("applicantDetail")
	assert.Equal(t, map[string]string{"name": "鈴木"}, detail)

	// Absent keys are zero values across the board.
	assert.Empty(t, doc.Fields.Str("missing"))
	assert.Zero(t, doc.Fields.Int("missing"))
	assert.False(t, doc.Fields.Bool("missing"))
}

func TestStringMapValueRoundTrip(t *testing.T) {
	v := firestore.StringMapValue(map[string]string{"tel": "09012345678", "name": "鈴木"})
	assert.Equal(t, map[string]string{"tel": "09012345678", "name": "鈴木"}, v.StringMap())
}
