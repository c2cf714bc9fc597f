package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Amount is a currency value. It wraps decimal.Decimal so commission math
// never goes through binary floating point, and stores as BSON Decimal128 so
// persisted profit rows re-read exactly as they were written.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal value as an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat converts a float to an Amount.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(a.Decimal.String())
	if err != nil {
		return bsontype.Null, nil, fmt.Errorf("amount %q is not a valid decimal128: %w", a.Decimal.String(), err)
	}
	return bsontype.Decimal128, bsoncore.AppendDecimal128(nil, d128), nil
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. Doubles are accepted
// for documents written before the Decimal128 migration.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Decimal128:
		d128, _, ok := bsoncore.ReadDecimal128(data)
		if !ok {
			return fmt.Errorf("invalid decimal128 amount value")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("decoding decimal128 amount: %w", err)
		}
		a.Decimal = d
	case bsontype.Double:
		f, _, ok := bsoncore.ReadDouble(data)
		if !ok {
			return fmt.Errorf("invalid double amount value")
		}
		a.Decimal = decimal.NewFromFloat(f)
	case bsontype.Null:
		a.Decimal = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %v into an amount", t)
	}
	return nil
}
