package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func buildBlob(t *testing.T, count, dim int, words []uint16) []byte {
	t.Helper()
	buf := make([]byte, HeaderSize+len(words)*2)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(count))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dim))
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[HeaderSize+i*2:HeaderSize+i*2+2], w)
	}
	return buf
}

func TestDecodeKnownValues(t *testing.T) {
	// S8: 0x3C00 = 1.0, 0x0000 = 0.0, 0xFC00 = -Inf
	data := buildBlob(t, 1, 3, []uint16{0x3C00, 0x0000, 0xFC00})

	vecs, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	require.Len(t, vecs[0], 3)

	require.InDelta(t, 1.0, vecs[0][0], 1e-3)
	require.Equal(t, float32(0.0), vecs[0][1])
	require.True(t, math.IsInf(float64(vecs[0][2]), -1))
}

func TestDecodeTruncatedHeader(t *testing.T) {
	_, err := Decode([]byte{0, 1, 2})
	require.ErrorIs(t, err, ErrTruncatedHeader)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	data := buildBlob(t, 2, 4, []uint16{0x3C00}) // declares 2*4=8 halfs, supplies 1
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestDecodePreservesNaN(t *testing.T) {
	data := buildBlob(t, 1, 1, []uint16{0x7E00}) // quiet NaN
	vecs, err := Decode(data)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(vecs[0][0])))
}

func TestPeekCountAndDim(t *testing.T) {
	data := buildBlob(t, 5, 128, nil)
	data = append(data, make([]byte, 5*128*2)...)

	count, err := PeekCount(data)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	dim, err := PeekDim(data)
	require.NoError(t, err)
	require.Equal(t, 128, dim)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []float32{1.0, -1.0, 0.5, 0.0, 3.140625, -0.000060975552}
	encoded := Encode([][]float32{values})

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	for i, v := range values {
		h := float16.Fromfloat32(v)
		require.Equal(t, h.Float32(), decoded[0][i])
	}
}

func TestEncodeDecodeEmpty(t *testing.T) {
	encoded := Encode(nil)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
