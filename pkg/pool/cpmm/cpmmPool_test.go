package cpmm

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"solswap/pkg"
)

func testKey(fill byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = fill
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func newTestPool() *CPMMPool {
	pool := &CPMMPool{
		Discriminator:      [8]uint8{247, 237, 227, 245, 215, 195, 222, 70},
		AmmConfig:          testKey(0x01),
		PoolCreator:        testKey(0x02),
		Token0Vault:        testKey(0x03),
		Token1Vault:        testKey(0x04),
		LpMint:             testKey(0x05),
		Token0Mint:         testKey(0x06),
		Token1Mint:         testKey(0x07),
		Token0Program:      solana.TokenProgramID,
		Token1Program:      TOKEN_2022_PROGRAM_ID,
		ObservationKey:     testKey(0x08),
		AuthBump:           254,
		Status:             0,
		LpMintDecimals:     9,
		Mint0Decimals:      9,
		Mint1Decimals:      6,
		LpSupply:           123456789,
		ProtocolFeesToken0: 111,
		ProtocolFeesToken1: 222,
		FundFeesToken0:     333,
		FundFeesToken1:     444,
		OpenTime:           1700000000,
		RecentEpoch:        650,
		PoolId:             testKey(0x09),
	}
	for i := range pool.Padding {
		pool.Padding[i] = uint64(i)
	}
	return pool
}

func TestPoolStateRoundTrip(t *testing.T) {
	original := newTestPool()

	data := original.Encode()
	require.Len(t, data, int(PoolSpan))

	decoded, err := DecodePool(original.PoolId, data)
	require.NoError(t, err)
	require.Equal(t, original, decoded)

	require.True(t, bytes.Equal(data, decoded.Encode()))
}

func TestDecodeShortData(t *testing.T) {
	data := newTestPool().Encode()

	var pool CPMMPool
	err := pool.Decode(data[:PoolSpan-1])
	require.ErrorIs(t, err, pkg.ErrMalformedAccount)

	err = pool.Decode(nil)
	require.ErrorIs(t, err, pkg.ErrMalformedAccount)
}

func TestEncodeFieldOffsets(t *testing.T) {
	pool := newTestPool()
	data := pool.Encode()

	require.Equal(t, pool.AmmConfig.Bytes(), data[8:40])
	require.Equal(t, pool.Token0Vault.Bytes(), data[72:104])
	require.Equal(t, pool.Token0Mint.Bytes(), data[168:200])
	require.Equal(t, pool.Token1Mint.Bytes(), data[200:232])
	require.Equal(t, pool.Status, data[329])

	require.Equal(t, uint64(637), pool.Span())
	require.Equal(t, uint64(168), pool.Offset("Token0Mint"))
	require.Equal(t, uint64(200), pool.Offset("Token1Mint"))
}

func TestResolveVaults(t *testing.T) {
	pool := newTestPool()

	forward, err := pool.ResolveVaults(pool.Token0Mint)
	require.NoError(t, err)
	require.Equal(t, pool.Token0Vault, forward.InputVault)
	require.Equal(t, pool.Token1Vault, forward.OutputVault)
	require.Equal(t, pool.Token1Mint, forward.OutputMint)
	require.Equal(t, pool.Token0Program, forward.InputProgram)
	require.Equal(t, pool.Token1Program, forward.OutputProgram)

	reverse, err := pool.ResolveVaults(pool.Token1Mint)
	require.NoError(t, err)
	require.Equal(t, pool.Token1Vault, reverse.InputVault)
	require.Equal(t, pool.Token0Vault, reverse.OutputVault)
	require.Equal(t, pool.Token0Mint, reverse.OutputMint)
	require.Equal(t, pool.Token1Program, reverse.InputProgram)
	require.Equal(t, pool.Token0Program, reverse.OutputProgram)

	_, err = pool.ResolveVaults(testKey(0xFF))
	require.Error(t, err)
}

func TestIsSwapEnabled(t *testing.T) {
	pool := newTestPool()

	cases := []struct {
		status  uint8
		enabled bool
	}{
		{0b000, true},
		{0b001, true}, // deposit disabled only
		{0b010, true}, // withdraw disabled only
		{0b100, false},
		{0b111, false},
	}
	for _, tc := range cases {
		pool.Status = tc.status
		require.Equal(t, tc.enabled, pool.IsSwapEnabled(), "status %03b", tc.status)
	}
}

func TestPoolIdentity(t *testing.T) {
	pool := newTestPool()

	require.Equal(t, pkg.ProtocolNameRaydiumCpmm, pool.ProtocolName())
	require.Equal(t, RAYDIUM_CPMM_PROGRAM_ID, pool.GetProgramID())
	require.Equal(t, pool.PoolId.String(), pool.GetID())

	base, quote := pool.GetTokens()
	require.Equal(t, pool.Token0Mint.String(), base)
	require.Equal(t, pool.Token1Mint.String(), quote)
}
