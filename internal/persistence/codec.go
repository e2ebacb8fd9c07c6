package persistence

import (
	"bytes"
	"encoding/gob"

	"github.com/petrijr/gridpath/pkg/api"
)

// encodeValue serializes v with encoding/gob.
func encodeValue[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeValue is the inverse of encodeValue. Empty input yields the zero
// value.
func decodeValue[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// EncodePath stores a nil path as NULL, keeping "no path" distinct from any
// real path.
func EncodePath(path []api.Position) ([]byte, error) {
	if path == nil {
		return nil, nil
	}
	return encodeValue(path)
}

func DecodePath(data []byte) ([]api.Position, error) {
	return decodeValue[[]api.Position](data)
}

func EncodeVisits(visits map[api.Position]int) ([]byte, error) {
	if len(visits) == 0 {
		return nil, nil
	}
	return encodeValue(visits)
}

func DecodeVisits(data []byte) (map[api.Position]int, error) {
	return decodeValue[map[api.Position]int](data)
}
