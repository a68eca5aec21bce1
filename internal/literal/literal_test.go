package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/ar"
)

func TestTranslatorClassifiesScalar(t *testing.T) {
	tr := NewTranslator()
	c := &ar.IntConstant{Type: &ar.IntType{Bits: 32, Signed: true}, Value: 7}
	got, err := tr.AsScalar(c)
	assert.NoError(t, err)
	assert.Same(t, ar.Operand(c), got)
}

func TestTranslatorRejectsAggregateAsScalar(t *testing.T) {
	tr := NewTranslator()
	agg := &ar.ZeroAggregateConstant{Type: &ar.ArrayType{Elem: &ar.IntType{Bits: 8, Signed: false}, Len: 4}}
	_, err := tr.AsScalar(agg)
	assert.Error(t, err)
	var target *AggregateLiteralError
	assert.ErrorAs(t, err, &target)
}

func TestTranslatorRejectsScalarAsAggregate(t *testing.T) {
	tr := NewTranslator()
	c := &ar.IntConstant{Type: &ar.IntType{Bits: 32, Signed: true}, Value: 1}
	_, err := tr.AsAggregate(c)
	assert.Error(t, err)
	var target *ScalarLiteralError
	assert.ErrorAs(t, err, &target)
}

func TestTranslatorVoidVarErrorsEitherWay(t *testing.T) {
	tr := NewTranslator()
	v := &ar.Variable{Name: "call_result", Type: &ar.VoidType{}}
	_, err := tr.AsScalar(v)
	assert.Error(t, err)
	var target *VoidVarLiteralError
	assert.ErrorAs(t, err, &target)

	_, err = tr.AsAggregate(v)
	assert.Error(t, err)
	assert.ErrorAs(t, err, &target)
}

func TestTranslatorCachesByIdentity(t *testing.T) {
	tr := NewTranslator()
	c := &ar.IntConstant{Type: &ar.IntType{Bits: 32, Signed: true}, Value: 1}
	k1 := tr.Classify(c)
	k2 := tr.Classify(c)
	assert.Equal(t, k1, k2)
	assert.Equal(t, Scalar, k1)
}
