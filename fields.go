package obs

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

// ScalarKind is the closed set of value types a settings field may hold.
type ScalarKind uint8

const (
	ScalarText ScalarKind = iota
	ScalarInteger
	ScalarBoolean
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarText:
		return "text"
	case ScalarInteger:
		return "integer"
	case ScalarBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Scalar is one settings value: text, integer or boolean.
type Scalar struct {
	kind ScalarKind
	text string
	num  int64
	flag bool
}

func TextValue(s string) Scalar { return Scalar{kind: ScalarText, text: s} }
func IntValue(n int64) Scalar   { return Scalar{kind: ScalarInteger, num: n} }
func BoolValue(b bool) Scalar   { return Scalar{kind: ScalarBoolean, flag: b} }

func (v Scalar) Kind() ScalarKind { return v.kind }

// Text returns the text value; ok is false for other kinds.
func (v Scalar) Text() (s string, ok bool) { return v.text, v.kind == ScalarText }

// Int returns the integer value; ok is false for other kinds.
func (v Scalar) Int() (n int64, ok bool) { return v.num, v.kind == ScalarInteger }

// Bool returns the boolean value; ok is false for other kinds.
func (v Scalar) Bool() (b bool, ok bool) { return v.flag, v.kind == ScalarBoolean }

func (v Scalar) String() string {
	switch v.kind {
	case ScalarInteger:
		return strconv.FormatInt(v.num, 10)
	case ScalarBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return strconv.Quote(v.text)
	}
}

func (v Scalar) value() any {
	switch v.kind {
	case ScalarInteger:
		return v.num
	case ScalarBoolean:
		return v.flag
	default:
		return v.text
	}
}

// Field is one key of a flat settings object.
type Field struct {
	Key   string
	Value Scalar
}

// Fields is a flat settings object in document order.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (Scalar, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return Scalar{}, false
}

// JSON renders f as a flat JSON object, keys in order.
func (f Fields) JSON() (string, error) {
	doc := "{}"
	for _, field := range f {
		var err error
		doc, err = sjson.Set(doc, escapeKey(field.Key), field.Value.value())
		if err != nil {
			return "", &Error{Kind: KindJSON, Op: "fields_json", Name: field.Key, Cause: err}
		}
	}
	return doc, nil
}

// MarshalJSON keeps field order when Fields is serialized.
func (f Fields) MarshalJSON() ([]byte, error) {
	doc, err := f.JSON()
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

// FieldsOf serializes v with encoding/json and flattens the top level of
// the resulting object:
//
//   - strings become text, booleans become booleans
//   - numbers become integers; fractions truncate toward zero, integer
//     literals outside int64 and other numbers beyond ±2^53 fail with
//     KindOutOfRange
//   - null members are dropped
//   - nested objects and arrays fail with KindUnsupported
func FieldsOf(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindJSON, Op: "fields_of", Cause: err}
	}
	return flatten("fields_of", gjson.ParseBytes(raw))
}

// ParseFields is FieldsOf for a JSON document.
func ParseFields(doc string) (Fields, error) {
	if !gjson.Valid(doc) {
		return nil, &Error{Kind: KindJSON, Op: "parse_fields", Name: "invalid JSON"}
	}
	return flatten("parse_fields", gjson.Parse(doc))
}

func flatten(op string, doc gjson.Result) (Fields, error) {
	if !doc.IsObject() {
		return nil, unsupported(op, "top level "+doc.Type.String())
	}

	var (
		fields Fields
		err    error
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			fields = append(fields, Field{key.Str, TextValue(value.Str)})
		case gjson.True, gjson.False:
			fields = append(fields, Field{key.Str, BoolValue(value.Bool())})
		case gjson.Number:
			var n int64
			n, err = integer(op, key.Str, value)
			if err != nil {
				return false
			}
			fields = append(fields, Field{key.Str, IntValue(n)})
		case gjson.Null:
			Logger().Debug("null value skipped", zap.String("key", key.Str))
		default:
			err = unsupported(op, "nested value at "+strconv.Quote(key.Str))
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// maxSafeFloat is the largest magnitude a float64 holds without losing
// integer precision (2^53).
const maxSafeFloat = 1 << 53

// integer converts a JSON number for obs_data_set_int. Integer literals
// that fit int64 are exact. Other numbers go through float64 and must stay
// within ±2^53.
func integer(op, key string, value gjson.Result) (int64, error) {
	if n, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
		return n, nil
	}
	f := value.Float()
	if math.IsNaN(f) || math.Abs(f) > maxSafeFloat {
		return 0, &Error{Kind: KindOutOfRange, Op: op, Name: key + "=" + value.Raw}
	}
	return int64(f), nil
}

// escapeKey quotes the characters sjson treats as path syntax.
func escapeKey(key string) string {
	if !strings.ContainsAny(key, `.*?|#@\!:`) {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\!:`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
