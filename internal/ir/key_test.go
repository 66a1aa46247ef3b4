package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyDeterminism(t *testing.T) {
	doc := IRObject{"node": IRString("axiom"), "text": IRString("?a a tcga:Sample")}

	k1, err := NewKey(DomainStatement, doc)
	require.NoError(t, err)
	k2, err := NewKey(DomainStatement, doc)
	require.NoError(t, err)

	assert.Equal(t, k1, k2, "keys must be deterministic")
	assert.Len(t, string(k1), 64, "SHA-256 hex is 64 characters")
}

func TestNewKeyDomainSeparation(t *testing.T) {
	doc := IRObject{"text": IRString("?a")}

	expr := MustKey(DomainExpression, doc)
	stmt := MustKey(DomainStatement, doc)

	assert.NotEqual(t, expr, stmt, "same document under different domains must differ")
}

func TestKeySetIsOrderInsensitive(t *testing.T) {
	a := MustKey(DomainStatement, IRObject{"text": IRString("a")})
	b := MustKey(DomainStatement, IRObject{"text": IRString("b")})

	ab := MustKey(DomainStatement, IRObject{"children": KeySet([]Key{a, b})})
	ba := MustKey(DomainStatement, IRObject{"children": KeySet([]Key{b, a})})
	assert.Equal(t, ab, ba)
}

func TestKeySetKeepsMultiplicity(t *testing.T) {
	a := MustKey(DomainStatement, IRObject{"text": IRString("a")})
	b := MustKey(DomainStatement, IRObject{"text": IRString("b")})

	aab := MustKey(DomainStatement, IRObject{"children": KeySet([]Key{a, a, b})})
	abb := MustKey(DomainStatement, IRObject{"children": KeySet([]Key{a, b, b})})
	assert.NotEqual(t, aab, abb, "multisets with different multiplicities must differ")
}

func TestKeySetDoesNotMutateInput(t *testing.T) {
	keys := []Key{"b", "a"}
	_ = KeySet(keys)
	assert.Equal(t, []Key{"b", "a"}, keys)
}

func TestKeyShort(t *testing.T) {
	k := MustKey(DomainQuery, IRObject{})
	assert.Len(t, k.Short(), 12)
	assert.Equal(t, string(k)[:12], k.Short())
	assert.Equal(t, "abc", Key("abc").Short())
}

func TestMustKeyPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		MustKey(DomainQuery, IRObject{"having": nil})
	})
}
