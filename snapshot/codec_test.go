package snapshot

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
	"github.com/stretchr/testify/require"
)

func TestRoundTripCoins(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			groups := common.MakeGroups(randomCoins(25), 10)
			enc, err := NewEncoder(dir, format, 10)
			require.Nil(err)
			for _, group := range groups {
				require.Nil(enc.WriteCoins(group.Data))
			}
			require.Nil(enc.Close())

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			require.Equal(format, dec.Format())
			requireGroupsEqual(t, groups, collectGroups(t, dec.Coins()))

			// sequences are independently restartable
			requireGroupsEqual(t, groups, collectGroups(t, dec.Coins()))
		})
	}
}

func TestRoundTripMessages(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			groups := common.MakeGroups(randomMessages(13), 5)
			enc, err := NewEncoder(dir, format, 5)
			require.Nil(err)
			for _, group := range groups {
				require.Nil(enc.WriteMessages(group.Data))
			}
			require.Nil(enc.Close())

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			requireGroupsEqual(t, groups, collectGroups(t, dec.Messages()))
		})
	}
}

func TestRoundTripContracts(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			groups := common.MakeGroups(randomContracts(7), 3)
			enc, err := NewEncoder(dir, format, 3)
			require.Nil(err)
			for _, group := range groups {
				require.Nil(enc.WriteContracts(group.Data))
			}
			require.Nil(enc.Close())

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			requireGroupsEqual(t, groups, collectGroups(t, dec.Contracts()))
		})
	}
}

func TestRoundTripContractStatesAndBalances(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			states := common.MakeGroups(randomContractStates(17), 4)
			balances := common.MakeGroups(randomContractBalances(9), 4)
			enc, err := NewEncoder(dir, format, 4)
			require.Nil(err)
			for _, group := range states {
				require.Nil(enc.WriteContractStates(group.Data))
			}
			for _, group := range balances {
				require.Nil(enc.WriteContractBalances(group.Data))
			}
			require.Nil(enc.Close())

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			requireGroupsEqual(t, states, collectGroups(t, dec.ContractStates()))
			requireGroupsEqual(t, balances, collectGroups(t, dec.ContractBalances()))
		})
	}
}

func TestRowFormatLargerGroupSizeOnDecode(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	coins := randomCoins(20)
	enc, err := NewEncoder(dir, FormatRow, 5)
	require.Nil(err)
	for _, group := range common.MakeGroups(coins, 5) {
		require.Nil(enc.WriteCoins(group.Data))
	}
	require.Nil(enc.Close())

	dec, err := OpenDecoder(dir)
	require.Nil(err)
	// a larger decode group size regroups the same records
	decoded := collectGroups(t, dec.WithGroupSize(10).Coins())
	requireGroupsEqual(t, common.MakeGroups(coins, 10), decoded)
}

func TestEncoderSkipsEmptyGroups(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			groups := common.MakeGroups(randomCoins(6), 3)
			enc, err := NewEncoder(dir, format, 3)
			require.Nil(err)
			require.Nil(enc.WriteCoins(nil))
			require.Nil(enc.WriteCoins(groups[0].Data))
			require.Nil(enc.WriteCoins([]common.Coin{}))
			require.Nil(enc.WriteCoins(groups[1].Data))
			require.Nil(enc.Close())

			// empty writes consume no index in either format
			dec, err := OpenDecoder(dir)
			require.Nil(err)
			requireGroupsEqual(t, groups, collectGroups(t, dec.Coins()))
		})
	}
}

func TestMissingCategoryFileIsEmptySequence(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			enc, err := NewEncoder(dir, format, 10)
			require.Nil(err)
			require.Nil(enc.WriteCoins(randomCoins(3)))
			require.Nil(enc.Close())

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			messages := dec.Messages()
			require.False(messages.Next())
			require.Nil(messages.Err())
			require.Nil(messages.Close())
		})
	}
}

func TestTruncatedFileFailsLazily(t *testing.T) {
	for _, format := range []Format{FormatRow, FormatChunked} {
		t.Run(string(format), func(t *testing.T) {
			require := require.New(t)
			dir := t.TempDir()

			enc, err := NewEncoder(dir, format, 4)
			require.Nil(err)
			for _, group := range common.MakeGroups(randomCoins(16), 4) {
				require.Nil(enc.WriteCoins(group.Data))
			}
			require.Nil(enc.Close())

			path := categoryPath(dir, format, common.ResourceCoins)
			data, err := os.ReadFile(path)
			require.Nil(err)
			require.Nil(os.WriteFile(path, data[:len(data)-7], 0644))

			dec, err := OpenDecoder(dir)
			require.Nil(err)
			coins := dec.Coins()
			yielded := 0
			for coins.Next() {
				yielded++
			}
			require.NotNil(coins.Err())
			require.Less(yielded, 4)
		})
	}
}

func TestDecoderWithoutMetadata(t *testing.T) {
	require := require.New(t)
	_, err := OpenDecoder(t.TempDir())
	require.NotNil(err)
}

func TestMetadataRoundTrip(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	require.Nil(writeMetadata(dir, FormatChunked, 1000))
	format, size, err := readMetadata(dir)
	require.Nil(err)
	require.Equal(FormatChunked, format)
	require.Equal(1000, size)

	require.Nil(os.WriteFile(filepath.Join(dir, MetadataFilename), []byte("format"), 0644))
	_, _, err = readMetadata(dir)
	require.NotNil(err)
}

func collectGroups[T any](t *testing.T, groups *Groups[T]) []common.Group[T] {
	defer groups.Close()
	var collected []common.Group[T]
	for groups.Next() {
		collected = append(collected, groups.Group())
	}
	require.Nil(t, groups.Err())
	return collected
}

func requireGroupsEqual[T any](t *testing.T, expected, got []common.Group[T]) {
	require.Equal(t, len(expected), len(got))
	for i := range expected {
		require.Equal(t, expected[i].Index, got[i].Index)
		require.Equal(t, expected[i].Data, got[i].Data)
	}
}

func randomHash(r *rand.Rand) crypto.Hash {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, r.Uint64())
	return crypto.Blake3Hash(buf)
}

func randomCoins(count int) []common.Coin {
	r := rand.New(rand.NewSource(42))
	coins := make([]common.Coin, count)
	for i := range coins {
		coins[i] = common.Coin{
			Owner:  common.Address(randomHash(r)),
			Amount: r.Uint64(),
			Asset:  randomHash(r),
		}
		if i%2 == 0 {
			txId := randomHash(r)
			index := uint8(i)
			coins[i].TxId = &txId
			coins[i].OutputIndex = &index
		}
		if i%3 == 0 {
			height := r.Uint32()
			txIdx := uint16(i)
			coins[i].TxPointerBlockHeight = &height
			coins[i].TxPointerTxIndex = &txIdx
		}
	}
	return coins
}

func randomMessages(count int) []common.Message {
	r := rand.New(rand.NewSource(43))
	messages := make([]common.Message, count)
	for i := range messages {
		data := make([]byte, r.Intn(32)+1)
		r.Read(data)
		messages[i] = common.Message{
			Sender:    common.Address(randomHash(r)),
			Recipient: common.Address(randomHash(r)),
			Nonce:     uint64(i),
			Amount:    r.Uint64(),
			Data:      data,
			DaHeight:  r.Uint64(),
		}
	}
	return messages
}

func randomContracts(count int) []common.Contract {
	r := rand.New(rand.NewSource(44))
	contracts := make([]common.Contract, count)
	for i := range contracts {
		code := make([]byte, r.Intn(64)+4)
		r.Read(code)
		contracts[i] = common.Contract{
			ContractId: randomHash(r),
			Code:       code,
			Salt:       randomHash(r),
		}
		if i%2 == 0 {
			contracts[i].State = []common.StateEntry{
				{Key: randomHash(r), Value: randomHash(r)},
			}
		}
		if i%3 == 0 {
			contracts[i].Balances = []common.BalanceEntry{
				{Asset: randomHash(r), Amount: r.Uint64()},
			}
		}
	}
	return contracts
}

func randomContractStates(count int) []common.ContractState {
	r := rand.New(rand.NewSource(45))
	states := make([]common.ContractState, count)
	for i := range states {
		states[i] = common.ContractState{
			ContractId: randomHash(r),
			Key:        randomHash(r),
			Value:      randomHash(r),
		}
	}
	return states
}

func randomContractBalances(count int) []common.ContractBalance {
	r := rand.New(rand.NewSource(46))
	balances := make([]common.ContractBalance, count)
	for i := range balances {
		balances[i] = common.ContractBalance{
			ContractId: randomHash(r),
			Asset:      randomHash(r),
			Amount:     r.Uint64(),
		}
	}
	return balances
}
