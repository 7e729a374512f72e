package permit

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

// decodeAPI keeps numbers as their literal text.
var decodeAPI = jsoniter.Config{
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// Decode converts one export element into a raw permit.
//
// The element must be a flat JSON object. Strings are taken as-is, numbers
// keep their literal text, booleans become "true"/"false" and null values are
// dropped as absent. Nested objects, arrays, non-object elements and strings
// that are not valid UTF-8 fail with domain.ErrUnexpectedType.
func Decode(elem domain.RawElement) (domain.RawPermit, error) {
	iter := decodeAPI.BorrowIterator(elem)
	defer decodeAPI.ReturnIterator(iter)

	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		return nil, fmt.Errorf("%w: element is %s, not an object", domain.ErrUnexpectedType, valueTypeName(next))
	}

	raw := make(domain.RawPermit)
	var typeErr error

	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		if !utf8.ValidString(field) {
			typeErr = fmt.Errorf("%w: field name %q is not valid UTF-8", domain.ErrUnexpectedType, field)
			return false
		}
		switch next := iter.WhatIsNext(); next {
		case jsoniter.StringValue:
			v := iter.ReadString()
			if !utf8.ValidString(v) {
				typeErr = fmt.Errorf("%w: field %q is not valid UTF-8", domain.ErrUnexpectedType, field)
				return false
			}
			raw[field] = v
		case jsoniter.NumberValue:
			raw[field] = iter.ReadNumber().String()
		case jsoniter.BoolValue:
			if iter.ReadBool() {
				raw[field] = "true"
			} else {
				raw[field] = "false"
			}
		case jsoniter.NilValue:
			iter.ReadNil()
			delete(raw, field)
		default:
			typeErr = fmt.Errorf("%w: field %q is %s", domain.ErrUnexpectedType, field, valueTypeName(next))
			return false
		}
		return true
	})

	if typeErr != nil {
		return nil, typeErr
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedType, iter.Error)
	}
	return raw, nil
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "a string"
	case jsoniter.NumberValue:
		return "a number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "a boolean"
	case jsoniter.ArrayValue:
		return "an array"
	case jsoniter.ObjectValue:
		return "an object"
	default:
		return "invalid"
	}
}
