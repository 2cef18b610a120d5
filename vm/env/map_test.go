package env

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewMap(t *testing.T) {
	m := NewMap([]byte{0x1}, nil, nil)
	require.Equal(t, []byte{0x1}, m.prefix)

	prefix := make([]byte, 32)
	prefix[31] = 1

	m = NewMap(prefix, nil, nil)
	require.Equal(t, prefix[:30], m.prefix)
}

func TestMap_SetGetRemove(t *testing.T) {
	env, stateDb := createEnv(t)
	ctx := callContext()

	m := NewMap([]byte("a"), env, ctx)
	m.Set([]byte{0x1}, []byte{0x5})
	require.Equal(t, []byte{0x5}, m.Get([]byte{0x1}))
	require.Equal(t, []byte{0x5}, env.GetValue(ctx, []byte{'a', 0x1}))

	other := NewMap([]byte("b"), env, ctx)
	require.Nil(t, other.Get([]byte{0x1}))

	env.Commit()
	require.Equal(t, []byte{0x5}, stateDb.GetContractValue(contractAddr, []byte{'a', 0x1}))

	m.Remove([]byte{0x1})
	require.Nil(t, m.Get([]byte{0x1}))
}
