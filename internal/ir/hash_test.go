package ir

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationHashDeterminism(t *testing.T) {
	h1, err := OperationHash(newTestSlice())
	require.NoError(t, err)
	h2, err := OperationHash(newTestSlice())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "OperationHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestOperationHashChangesWithContent(t *testing.T) {
	base := MustOperationHash(newTestSlice())

	otherDim := newTestSlice()
	otherDim.Attributes.Set("dim", NewIndexAttr(0))

	otherResult := newTestSlice()
	otherResult.Results[0].Type = NewViewType(F32, 2)

	otherOperand := newTestSlice()
	otherOperand.Operands[1] = NewArgument("r", Range)

	otherName := newTestSlice()
	otherName.Name = "linalg.other"

	assert.NotEqual(t, base, MustOperationHash(otherDim), "dim should change the hash")
	assert.NotEqual(t, base, MustOperationHash(otherResult), "result type should change the hash")
	assert.NotEqual(t, base, MustOperationHash(otherOperand), "operand type should change the hash")
	assert.NotEqual(t, base, MustOperationHash(otherName), "op name should change the hash")
}

func TestOperationHashAttrTypeMatters(t *testing.T) {
	a := newTestSlice()
	b := newTestSlice()
	b.Attributes.Set("dim", IntegerAttr{Value: 1, Type: I64})

	assert.NotEqual(t, MustOperationHash(a), MustOperationHash(b))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc"
	h1 := hashWithDomain("ab", []byte("c"))
	h2 := hashWithDomain("a", []byte("bc"))
	assert.NotEqual(t, h1, h2)
}

func TestHashHexEncoding(t *testing.T) {
	h := MustOperationHash(newTestSlice())
	_, err := hex.DecodeString(h)
	assert.NoError(t, err)
}

func TestDomainConstants(t *testing.T) {
	assert.Equal(t, "linalg/operation/v1", DomainOperation)
}

func TestMustOperationHashPanics(t *testing.T) {
	assert.Panics(t, func() { MustOperationHash(nil) })
}
