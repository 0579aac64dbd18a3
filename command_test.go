package main

import (
	"testing"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/snapshot"
	"github.com/stretchr/testify/require"
)

func TestOpenLoadDecoder(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	enc, err := snapshot.NewEncoder(dir, snapshot.FormatRow, 7)
	require.Nil(err)
	require.Nil(enc.WriteCoins([]common.Coin{{Amount: 1}}))
	require.Nil(enc.Close())

	// without an explicit override the metadata group size wins
	dec, err := openLoadDecoder(dir, 0)
	require.Nil(err)
	require.Equal(7, dec.GroupSize())

	dec, err = openLoadDecoder(dir, 9)
	require.Nil(err)
	require.Equal(9, dec.GroupSize())

	_, err = openLoadDecoder(t.TempDir(), 0)
	require.NotNil(err)
}
