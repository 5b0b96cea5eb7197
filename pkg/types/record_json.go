package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MarshalRecord encodes a record as a JSON object holding id, created_at,
// updated_at, every user attribute in order, and __class__. Floats always
// carry a decimal point or exponent so they decode back as floats.
func MarshalRecord(r *Record) (json.RawMessage, error) {
	om := orderedmap.New[string, json.RawMessage]()

	put := func(name string, value any) error {
		raw, err := marshalValue(value)
		if err != nil {
			return fmt.Errorf("encoding %s.%s: %w", r.Key(), name, err)
		}
		om.Set(name, raw)
		return nil
	}

	if err := put(AttrID, r.ID); err != nil {
		return nil, err
	}
	if err := put(AttrCreatedAt, r.CreatedAt.Format(TimeFormat)); err != nil {
		return nil, err
	}
	if err := put(AttrUpdatedAt, r.UpdatedAt.Format(TimeFormat)); err != nil {
		return nil, err
	}
	var attrErr error
	r.Each(func(name string, value any) {
		if attrErr == nil {
			attrErr = put(name, value)
		}
	})
	if attrErr != nil {
		return nil, attrErr
	}
	if err := put(AttrClass, r.Class); err != nil {
		return nil, err
	}

	return json.Marshal(om)
}

// UnmarshalRecord decodes a JSON object written by MarshalRecord. Attribute
// order is preserved. JSON numbers without a fraction or exponent become
// int64, or *big.Int when they overflow it; all other numbers become float64.
func UnmarshalRecord(data []byte) (*Record, error) {
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	class, err := requiredString(om, AttrClass)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(om, AttrID)
	if err != nil {
		return nil, err
	}
	createdAt, err := requiredTime(om, AttrCreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := requiredTime(om, AttrUpdatedAt)
	if err != nil {
		return nil, err
	}

	r := NewRecord(class, id, createdAt, updatedAt)
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		if IsReserved(pair.Key) {
			continue
		}
		v, err := unmarshalValue(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: attribute %q of %s: %v", ErrCorruptRecord, pair.Key, r.Key(), err)
		}
		r.Set(pair.Key, v)
	}
	return r, nil
}

func marshalValue(value any) (json.RawMessage, error) {
	switch v := normalizeValue(value).(type) {
	case string:
		return json.Marshal(v)
	case int64:
		return json.RawMessage(strconv.FormatInt(v, 10)), nil
	case *big.Int:
		return json.RawMessage(v.String()), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("unsupported float %v", v)
		}
		return json.RawMessage(formatFloat(v)), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func unmarshalValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := x.Int64(); err == nil {
				return n, nil
			}
			if n, ok := new(big.Int).SetString(s, 10); ok {
				return n, nil
			}
		}
		return x.Float64()
	default:
		return nil, fmt.Errorf("unsupported JSON value %s", string(raw))
	}
}

func requiredString(om *orderedmap.OrderedMap[string, json.RawMessage], name string) (string, error) {
	raw, ok := om.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrCorruptRecord, name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q is not a string", ErrCorruptRecord, name)
	}
	return s, nil
}

func requiredTime(om *orderedmap.OrderedMap[string, json.RawMessage], name string) (time.Time, error) {
	s, err := requiredString(om, name)
	if err != nil {
		return time.Time{}, err
	}
	// Parsing accepts an optional fractional second after the seconds field.
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a timestamp: %v", ErrCorruptRecord, name, err)
		}
	}
	return t, nil
}
