// Package codec decodes the binary embedding format used to ship precomputed
// dense vectors alongside a knowledge base corpus.
//
// Layout: [count:u32-LE][dim:u32-LE][count*dim half-precision floats, LE].
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/x448/float16"
)

// HeaderSize is the fixed size, in bytes, of the count+dim header.
const HeaderSize = 8

// ErrTruncatedHeader is returned when the input has fewer than HeaderSize bytes.
var ErrTruncatedHeader = errors.New("codec: truncated header")

// ErrTruncatedPayload is returned when the input is shorter than the header declares.
var ErrTruncatedPayload = errors.New("codec: truncated payload")

// PeekCount reads only the vector count from the header.
func PeekCount(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrTruncatedHeader
	}
	return int(binary.LittleEndian.Uint32(data[0:4])), nil
}

// PeekDim reads only the vector dimension from the header.
func PeekDim(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, ErrTruncatedHeader
	}
	return int(binary.LittleEndian.Uint32(data[4:8])), nil
}

// Decode parses a binary blob into count vectors of length dim, converting
// each half-precision word to float32. NaN, +/-Inf, and subnormal payload
// values are preserved rather than rejected.
func Decode(data []byte) (vectors [][]float32, err error) {
	if len(data) < HeaderSize {
		return nil, ErrTruncatedHeader
	}

	count := int(binary.LittleEndian.Uint32(data[0:4]))
	dim := int(binary.LittleEndian.Uint32(data[4:8]))

	want := HeaderSize + count*dim*2
	if len(data) < want {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedPayload, want, len(data))
	}

	vectors = make([][]float32, count)
	payload := data[HeaderSize:]
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		base := i * dim * 2
		for j := 0; j < dim; j++ {
			bits := binary.LittleEndian.Uint16(payload[base+j*2 : base+j*2+2])
			vec[j] = float16.Frombits(bits).Float32()
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// Encode serializes vectors into the binary format described by the package
// doc comment, rounding each float32 to the nearest half-precision value
// (ties to even). All vectors must
// share the same length; Encode panics otherwise, since it is a programmer
// error to build a ragged embedding set.
func Encode(vectors [][]float32) []byte {
	count := len(vectors)
	dim := 0
	if count > 0 {
		dim = len(vectors[0])
	}

	buf := make([]byte, HeaderSize+count*dim*2)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(count))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dim))

	for i, vec := range vectors {
		if len(vec) != dim {
			panic("codec: Encode requires vectors of uniform length")
		}
		base := HeaderSize + i*dim*2
		for j, v := range vec {
			bits := float16.Fromfloat32(v).Bits()
			binary.LittleEndian.PutUint16(buf[base+j*2:base+j*2+2], bits)
		}
	}

	return buf
}
