package common

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61")
	require.NoError(t, err)
	require.Equal(t, "0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61", addr.Hex())

	_, err = ParseAddress("0x4d60")
	require.Error(t, err)

	_, err = ParseAddress("0xzz60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61")
	require.Error(t, err)

	require.True(t, HexToAddress("bad").IsEmpty())
}

func TestAddress_SetBytes(t *testing.T) {
	var a Address
	a.SetBytes([]byte{0x1, 0x2})
	require.Equal(t, byte(0x1), a[18])
	require.Equal(t, byte(0x2), a[19])

	long := make([]byte, 25)
	long[24] = 0x7
	a.SetBytes(long)
	require.Equal(t, byte(0x7), a[19])
}

func TestAddress_JSON(t *testing.T) {
	type wrapper struct {
		Addr Address `json:"addr"`
	}
	in := wrapper{Addr: Address{0x1}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `{"addr":"0x0100000000000000000000000000000000000000"}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"addr":"0x01"}`), &out))
}

func TestToBytes(t *testing.T) {
	require.Equal(t, []byte{0x5}, ToBytes(byte(5)))
	require.Equal(t, []byte{0x1, 0x0}, ToBytes(uint16(1)))
	require.Equal(t, []byte{0x2, 0, 0, 0, 0, 0, 0, 0}, ToBytes(uint64(2)))
	require.Nil(t, ToBytes("str"))
}
