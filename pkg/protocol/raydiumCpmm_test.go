package protocol

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solswap/pkg"
	"solswap/pkg/pool/cpmm"
)

func fixtureKey(fill byte) solana.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = fill
	}
	return solana.PublicKeyFromBytes(raw[:])
}

func newPoolFixture(status uint8) *cpmm.CPMMPool {
	return &cpmm.CPMMPool{
		AmmConfig:      fixtureKey(0x01),
		PoolCreator:    fixtureKey(0x02),
		Token0Vault:    fixtureKey(0x03),
		Token1Vault:    fixtureKey(0x04),
		LpMint:         fixtureKey(0x05),
		Token0Mint:     fixtureKey(0x06),
		Token1Mint:     fixtureKey(0x07),
		Token0Program:  solana.TokenProgramID,
		Token1Program:  solana.TokenProgramID,
		ObservationKey: fixtureKey(0x08),
		AuthBump:       254,
		Status:         status,
		LpMintDecimals: 9,
		Mint0Decimals:  9,
		Mint1Decimals:  6,
		PoolId:         fixtureKey(0x09),
	}
}

func keyedAccount(pool *cpmm.CPMMPool) *rpc.KeyedAccount {
	return &rpc.KeyedAccount{
		Pubkey: pool.PoolId,
		Account: &rpc.Account{
			Owner: cpmm.RAYDIUM_CPMM_PROGRAM_ID,
			Data:  rpc.DataBytesOrJSONFromBytes(pool.Encode()),
		},
	}
}

func testProtocol() *RaydiumCpmmProtocol {
	return NewRaydiumCpmm(nil, zap.NewNop())
}

func TestSelectActivePoolsSkipsBadCandidates(t *testing.T) {
	p := testProtocol()

	active := newPoolFixture(0)
	disabled := newPoolFixture(0b100)
	truncated := &rpc.KeyedAccount{
		Pubkey: fixtureKey(0x0A),
		Account: &rpc.Account{
			Owner: cpmm.RAYDIUM_CPMM_PROGRAM_ID,
			Data:  rpc.DataBytesOrJSONFromBytes(active.Encode()[:100]),
		},
	}

	pools, err := p.selectActivePools([]*rpc.KeyedAccount{
		truncated,
		keyedAccount(disabled),
		keyedAccount(active),
	}, active.Token0Mint.String(), active.Token1Mint.String())
	require.NoError(t, err)
	require.Len(t, pools, 1)

	got, ok := pools[0].(*cpmm.CPMMPool)
	require.True(t, ok)
	require.Equal(t, active, got)
}

func TestSelectActivePoolsNoActiveCandidate(t *testing.T) {
	p := testProtocol()
	disabled := newPoolFixture(0b100)

	_, err := p.selectActivePools([]*rpc.KeyedAccount{keyedAccount(disabled)},
		disabled.Token0Mint.String(), disabled.Token1Mint.String())
	require.ErrorIs(t, err, pkg.ErrPoolNotFound)

	_, err = p.selectActivePools(nil, "a", "b")
	require.ErrorIs(t, err, pkg.ErrPoolNotFound)
}

func TestSelectActivePoolsOrderIndependent(t *testing.T) {
	p := testProtocol()
	pool := newPoolFixture(0)

	// The same on-chain pool matches exactly one of the two mint-ordering
	// queries; whichever query position it arrives through, the decoded
	// state is identical.
	fromForward, err := p.selectActivePools([]*rpc.KeyedAccount{keyedAccount(pool)},
		pool.Token0Mint.String(), pool.Token1Mint.String())
	require.NoError(t, err)
	fromReverse, err := p.selectActivePools([]*rpc.KeyedAccount{keyedAccount(pool)},
		pool.Token1Mint.String(), pool.Token0Mint.String())
	require.NoError(t, err)

	require.Equal(t, fromForward, fromReverse)
	require.Equal(t, pool.GetID(), fromForward[0].GetID())
}
