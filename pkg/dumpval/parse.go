package dumpval

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Parse decodes one JSON document into a Value. Unlike a plain
// json.Unmarshal into map[string]interface{}, the token walk keeps object
// members in wire order and numbers as json.Number.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseNext(dec)
	if err != nil {
		return Value{}, err
	}

	// Anything after the first document is a malformed message.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("trailing data after JSON document")
	}
	return v, nil
}

func parseNext(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, errors.Wrap(err, "reading JSON token")
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, errors.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return NewString(t), nil
	case json.Number:
		return NewNumber(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, errors.Errorf("unexpected JSON token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, errors.Wrap(err, "reading object key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, errors.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := parseNext(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, errors.Wrap(err, "reading object close")
	}
	return NewObject(members), nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		val, err := parseNext(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, errors.Wrap(err, "reading array close")
	}
	return NewArray(elems), nil
}
