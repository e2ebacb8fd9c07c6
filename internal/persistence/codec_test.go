package persistence

import (
	"testing"

	"github.com/petrijr/gridpath/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestEncodePath_NilStaysNil(t *testing.T) {
	data, err := EncodePath(nil)
	require.NoError(t, err)
	require.Nil(t, data)

	path, err := DecodePath(data)
	require.NoError(t, err)
	require.Nil(t, path)
}

func TestEncodePath_SinglePosition(t *testing.T) {
	data, err := EncodePath([]api.Position{api.Pos(3, 3)})
	require.NoError(t, err)

	path, err := DecodePath(data)
	require.NoError(t, err)
	require.Equal(t, []api.Position{api.Pos(3, 3)}, path)
}

func TestDecodePath_Garbage(t *testing.T) {
	_, err := DecodePath([]byte("not gob"))
	require.Error(t, err)
}

func TestDecodeVisits_Garbage(t *testing.T) {
	_, err := DecodeVisits([]byte("garbage"))
	require.Error(t, err)
}
