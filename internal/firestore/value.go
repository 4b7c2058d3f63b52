// internal/firestore/value.go
package firestore

import "strconv"

// Value is the document store's discriminated wire representation. Exactly
// one tag is set per value; the REST API rejects documents with more.
// integerValue travels as a decimal string in JSON.
type Value struct {
	StringValue    *string          `json:"stringValue,omitempty"`
	IntegerValue   *string          `json:"integerValue,omitempty"`
	DoubleValue    *float64         `json:"doubleValue,omitempty"`
	BooleanValue   *bool            `json:"booleanValue,omitempty"`
	TimestampValue *string          `json:"timestampValue,omitempty"`
	NullValue      *string          `json:"nullValue,omitempty"`
	MapValue       *MapValue        `json:"mapValue,omitempty"`
	ArrayValue     *ArrayValue      `json:"arrayValue,omitempty"`
}

type MapValue struct {
	Fields map[string]Value `json:"fields,omitempty"`
}

type ArrayValue struct {
	Values []Value `json:"values,omitempty"`
}

// ---- encoding helpers ----

func String(s string) Value {
	return Value{StringValue: &s}
}

func Integer(i int64) Value {
	s := strconv.FormatInt(i, 10)
	return Value{IntegerValue: &s}
}

func Boolean(b bool) Value {
	return Value{BooleanValue: &b}
}

func Map(fields map[string]Value) Value {
	return Value{MapValue: &MapValue{Fields: fields}}
}

// ---- decoding helpers ----
//
// Absent or mistyped fields decode to zero values rather than failing;
// malformed documents must not abort a listing.

// Str returns the string content, or "" when the value is not a string.
func (v Value) Str() string {
	if v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

// Int returns the integer content, or 0 when the value is not an integer
// or does not parse.
func (v Value) Int() int64 {
	if v.IntegerValue == nil {
		return 0
	}
	n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Bool returns the boolean content, or false when the value is not a bool.
func (v Value) Bool() bool {
	return v.BooleanValue != nil && *v.BooleanValue
}

// MapFields returns the nested fields, or nil when the value is not a map.
func (v Value) MapFields() map[string]Value {
	if v.MapValue == nil {
		return nil
	}
	return v.MapValue.Fields
}

// StringMap flattens a mapValue to its string-typed entries only. Non-string
// entries are skipped, matching how applicantDetail is consumed.
func (v Value) StringMap() map[string]string {
	out := map[string]string{}
	for k, f := range v.MapFields() {
		if f.StringValue != nil {
			out[k] = *f.StringValue
		}
	}
	return out
}

// Fields is a document field set with typed lookups.
type Fields map[string]Value

func (f Fields) Str(key string) string     { return f[key].Str() }
func (f Fields) Int(key string) int64      { return f[key].Int() }
func (f Fields) Bool(key string) bool      { return f[key].Bool() }
func (f Fields) Map(key string) Fields     { return Fields(f[key].MapFields()) }
func (f Fields) StringMap(key string) map[string]string { return f[key].StringMap() }

// StringMapValue encodes a flat string map as a mapValue.
func StringMapValue(m map[string]string) Value {
	fields := make(map[string]Value, len(m))
	for k, v := range m {
		fields[k] = String(v)
	}
	return Map(fields)
}
