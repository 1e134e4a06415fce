package events

import (
	"fmt"
	"time"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// GeoPoint is the decoded form of a Firestore geo point value.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Reference is the decoded form of a Firestore document reference value.
type Reference string

// FieldsToMap converts Firestore document fields into plain Go values:
// nil, bool, int64, float64, string, []byte, time.Time, Reference, GeoPoint,
// []any and map[string]any.
func FieldsToMap(fields map[string]*firestoredata.Value) map[string]any {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		out[name] = valueToAny(v)
	}
	return out
}

func valueToAny(v *firestoredata.Value) any {
	if v == nil {
		return nil
	}
	switch x := v.GetValueType().(type) {
	case *firestoredata.Value_NullValue:
		return nil
	case *firestoredata.Value_BooleanValue:
		return x.BooleanValue
	case *firestoredata.Value_IntegerValue:
		return x.IntegerValue
	case *firestoredata.Value_DoubleValue:
		return x.DoubleValue
	case *firestoredata.Value_StringValue:
		return x.StringValue
	case *firestoredata.Value_BytesValue:
		return x.BytesValue
	case *firestoredata.Value_TimestampValue:
		return x.TimestampValue.AsTime()
	case *firestoredata.Value_ReferenceValue:
		return Reference(x.ReferenceValue)
	case *firestoredata.Value_GeoPointValue:
		return GeoPoint{
			Latitude:  x.GeoPointValue.GetLatitude(),
			Longitude: x.GeoPointValue.GetLongitude(),
		}
	case *firestoredata.Value_ArrayValue:
		values := x.ArrayValue.GetValues()
		arr := make([]any, len(values))
		for i, elem := range values {
			arr[i] = valueToAny(elem)
		}
		return arr
	case *firestoredata.Value_MapValue:
		return FieldsToMap(x.MapValue.GetFields())
	default:
		// A Value with no type set is how Firestore encodes an unset field.
		return nil
	}
}

// MapToFields is the inverse of FieldsToMap. It is used to build synthetic
// events; geo points are not supported.
func MapToFields(fields map[string]any) (map[string]*firestoredata.Value, error) {
	out := make(map[string]*firestoredata.Value, len(fields))
	for name, raw := range fields {
		v, err := anyToValue(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func anyToValue(raw any) (*firestoredata.Value, error) {
	switch x := raw.(type) {
	case nil:
		return &firestoredata.Value{ValueType: &firestoredata.Value_NullValue{NullValue: structpb.NullValue_NULL_VALUE}}, nil
	case bool:
		return &firestoredata.Value{ValueType: &firestoredata.Value_BooleanValue{BooleanValue: x}}, nil
	case int:
		return &firestoredata.Value{ValueType: &firestoredata.Value_IntegerValue{IntegerValue: int64(x)}}, nil
	case int64:
		return &firestoredata.Value{ValueType: &firestoredata.Value_IntegerValue{IntegerValue: x}}, nil
	case float64:
		return &firestoredata.Value{ValueType: &firestoredata.Value_DoubleValue{DoubleValue: x}}, nil
	case string:
		return &firestoredata.Value{ValueType: &firestoredata.Value_StringValue{StringValue: x}}, nil
	case []byte:
		return &firestoredata.Value{ValueType: &firestoredata.Value_BytesValue{BytesValue: x}}, nil
	case time.Time:
		return &firestoredata.Value{ValueType: &firestoredata.Value_TimestampValue{TimestampValue: timestamppb.New(x)}}, nil
	case Reference:
		return &firestoredata.Value{ValueType: &firestoredata.Value_ReferenceValue{ReferenceValue: string(x)}}, nil
	case []any:
		values := make([]*firestoredata.Value, len(x))
		for i, elem := range x {
			v, err := anyToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			values[i] = v
		}
		return &firestoredata.Value{ValueType: &firestoredata.Value_ArrayValue{
			ArrayValue: &firestoredata.ArrayValue{Values: values},
		}}, nil
	case map[string]any:
		nested, err := MapToFields(x)
		if err != nil {
			return nil, err
		}
		return &firestoredata.Value{ValueType: &firestoredata.Value_MapValue{
			MapValue: &firestoredata.MapValue{Fields: nested},
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
}
