package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

var errTrailingData = errors.New("unexpected data after top-level value")

// Decode reads exactly one JSON document from r into a new Value tree,
// preserving object key order.
func Decode(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	*v = *parsed

	return nil
}

func decode(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object()

			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}

				child, err := decode(dec)
				if err != nil {
					return nil, err
				}

				obj.Set(key, child)
			}

			// closing '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return obj, nil

		case '[':
			arr := Array()

			for dec.More() {
				item, err := decode(dec)
				if err != nil {
					return nil, err
				}

				arr.Append(item)
			}

			// closing ']'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return arr, nil
		}

		return nil, fmt.Errorf("unexpected delimiter %q", t)

	case string:
		return String(t), nil

	case json.Number:
		return Number(t.String()), nil

	case bool:
		return Bool(t), nil

	case nil:
		return Null(), nil
	}

	return nil, fmt.Errorf("unexpected token %v", tok)
}

// MarshalJSON implements json.Marshaler. Object keys are written in
// insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	err := v.encode(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")

	case KindString:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}

		buf.Write(b)

	case KindNumber:
		buf.WriteString(v.text)

	case KindBool:
		buf.WriteString(strconv.FormatBool(v.flag))

	case KindObject:
		buf.WriteByte('{')

		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}

			b, err := json.Marshal(key)
			if err != nil {
				return err
			}

			buf.Write(b)
			buf.WriteByte(':')

			err = v.props[key].encode(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte('}')

	case KindArray:
		buf.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}

			err := item.encode(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	}

	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler. Objects become ordered
// mapping slices so key order survives.
func (v *Value) MarshalYAML() (any, error) {
	return v.yamlNative(), nil
}

func (v *Value) yamlNative() any {
	switch v.Kind() {
	case KindObject:
		m := make(yaml.MapSlice, 0, len(v.keys))
		for _, key := range v.keys {
			m = append(m, yaml.MapItem{Key: key, Value: v.props[key].yamlNative()})
		}

		return m

	case KindArray:
		a := make([]any, 0, len(v.items))
		for _, item := range v.items {
			a = append(a, item.yamlNative())
		}

		return a

	default:
		return v.Native()
	}
}

// Native converts v to plain Go values: map[string]any, []any, string,
// int64 or float64, bool, and nil.
func (v *Value) Native() any {
	switch v.Kind() {
	case KindString:
		return v.text

	case KindNumber:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}

		if f, err := strconv.ParseFloat(v.text, 64); err == nil {
			return f
		}

		return v.text

	case KindBool:
		return v.flag

	case KindObject:
		m := make(map[string]any, len(v.props))
		for k, child := range v.props {
			m[k] = child.Native()
		}

		return m

	case KindArray:
		a := make([]any, 0, len(v.items))
		for _, item := range v.items {
			a = append(a, item.Native())
		}

		return a

	default:
		return nil
	}
}
