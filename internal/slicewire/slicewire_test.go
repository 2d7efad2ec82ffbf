package slicewire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLightRoundTrip(t *testing.T) {
	var root [32]byte
	for i := range root {
		root[i] = byte(i)
	}
	proof := [][]byte{{0x01, 0x02}, {0x03}, {}}

	b, err := EncodeLight(root, proof)
	require.NoError(t, err)

	gotRoot, gotProof, err := DecodeLight(b)
	require.NoError(t, err)
	require.Equal(t, root, gotRoot)
	require.Equal(t, proof, gotProof)
}

func TestEncodeLightRejectsOversizedSibling(t *testing.T) {
	var root [32]byte
	huge := make([]byte, 0x10000)
	_, err := EncodeLight(root, [][]byte{huge})
	require.Error(t, err)
}

func TestDecodeLightRejectsShortInput(t *testing.T) {
	_, _, err := DecodeLight(make([]byte, 10))
	require.Error(t, err)
}

func TestDecodeLightRejectsTruncatedSibling(t *testing.T) {
	var root [32]byte
	b, err := EncodeLight(root, [][]byte{{0x01, 0x02, 0x03, 0x04}})
	require.NoError(t, err)

	_, _, err = DecodeLight(b[:len(b)-2])
	require.Error(t, err)
}

func TestEncodeRowDataConcatenates(t *testing.T) {
	rows := [][]byte{{0x01, 0x02}, {0x03}}
	got := EncodeRowData(rows)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, got)
}
