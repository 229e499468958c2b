package cpmm

import (
	"encoding/binary"
	"fmt"

	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"solswap/pkg"
)

// PoolSpan is the fixed byte length of a CPMM pool state account.
const PoolSpan = uint64(637)

// CPMMPool is a decoded snapshot of a Raydium CPMM (constant product) pool
// state account. It is constructed fresh on every query and never mutated.
type CPMMPool struct {
	// 8 bytes account discriminator
	Discriminator [8]uint8
	// Core states
	AmmConfig      solana.PublicKey
	PoolCreator    solana.PublicKey
	Token0Vault    solana.PublicKey
	Token1Vault    solana.PublicKey
	LpMint         solana.PublicKey
	Token0Mint     solana.PublicKey
	Token1Mint     solana.PublicKey
	Token0Program  solana.PublicKey
	Token1Program  solana.PublicKey
	ObservationKey solana.PublicKey
	AuthBump       uint8
	Status         uint8
	LpMintDecimals uint8
	Mint0Decimals  uint8
	Mint1Decimals  uint8
	LpSupply       uint64
	// Fee states
	ProtocolFeesToken0 uint64
	ProtocolFeesToken1 uint64
	FundFeesToken0     uint64
	FundFeesToken1     uint64
	// Other states
	OpenTime    uint64
	RecentEpoch uint64
	Padding     [31]uint64

	PoolId solana.PublicKey
}

// DecodePool decodes a pool state account fetched from poolID.
func DecodePool(poolID solana.PublicKey, data []byte) (*CPMMPool, error) {
	pool := &CPMMPool{}
	if err := pool.Decode(data); err != nil {
		return nil, err
	}
	pool.PoolId = poolID
	return pool, nil
}

func (l *CPMMPool) Decode(data []byte) error {
	if uint64(len(data)) < PoolSpan {
		return fmt.Errorf("%w: got %d bytes, want %d", pkg.ErrMalformedAccount, len(data), PoolSpan)
	}

	offset := 0

	copy(l.Discriminator[:], data[offset:offset+8])
	offset += 8

	l.AmmConfig = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.PoolCreator = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token0Vault = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token1Vault = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.LpMint = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token0Mint = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token1Mint = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token0Program = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.Token1Program = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.ObservationKey = solana.PublicKeyFromBytes(data[offset : offset+32])
	offset += 32

	l.AuthBump = data[offset]
	offset += 1

	l.Status = data[offset]
	offset += 1

	l.LpMintDecimals = data[offset]
	offset += 1

	l.Mint0Decimals = data[offset]
	offset += 1

	l.Mint1Decimals = data[offset]
	offset += 1

	l.LpSupply = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.ProtocolFeesToken0 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.ProtocolFeesToken1 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.FundFeesToken0 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.FundFeesToken1 = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.OpenTime = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	l.RecentEpoch = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	for i := 0; i < 31; i++ {
		l.Padding[i] = binary.LittleEndian.Uint64(data[offset : offset+8])
		offset += 8
	}

	return nil
}

// Encode writes the pool state back to its fixed byte layout. The live code
// path only decodes; encoding exists for fixtures and round-trip checks.
func (l *CPMMPool) Encode() []byte {
	data := make([]byte, PoolSpan)
	offset := 0

	copy(data[offset:offset+8], l.Discriminator[:])
	offset += 8

	for _, key := range []solana.PublicKey{
		l.AmmConfig, l.PoolCreator,
		l.Token0Vault, l.Token1Vault,
		l.LpMint,
		l.Token0Mint, l.Token1Mint,
		l.Token0Program, l.Token1Program,
		l.ObservationKey,
	} {
		copy(data[offset:offset+32], key[:])
		offset += 32
	}

	data[offset] = l.AuthBump
	offset += 1
	data[offset] = l.Status
	offset += 1
	data[offset] = l.LpMintDecimals
	offset += 1
	data[offset] = l.Mint0Decimals
	offset += 1
	data[offset] = l.Mint1Decimals
	offset += 1

	for _, v := range []uint64{
		l.LpSupply,
		l.ProtocolFeesToken0, l.ProtocolFeesToken1,
		l.FundFeesToken0, l.FundFeesToken1,
		l.OpenTime, l.RecentEpoch,
	} {
		binary.LittleEndian.PutUint64(data[offset:offset+8], v)
		offset += 8
	}

	for i := 0; i < 31; i++ {
		binary.LittleEndian.PutUint64(data[offset:offset+8], l.Padding[i])
		offset += 8
	}

	return data
}

func (l *CPMMPool) Span() uint64 {
	return PoolSpan
}

func (l *CPMMPool) Offset(field string) uint64 {
	switch field {
	case "Token0Mint":
		return 168
	case "Token1Mint":
		return 200
	}
	return 0
}

func (pool *CPMMPool) ProtocolName() pkg.ProtocolName {
	return pkg.ProtocolNameRaydiumCpmm
}

func (pool *CPMMPool) GetProgramID() solana.PublicKey {
	return RAYDIUM_CPMM_PROGRAM_ID
}

// GetID returns the pool ID
func (pool *CPMMPool) GetID() string {
	return pool.PoolId.String()
}

// GetTokens returns the base and quote token mints
func (pool *CPMMPool) GetTokens() (baseMint, quoteMint string) {
	return pool.Token0Mint.String(), pool.Token1Mint.String()
}

// IsSwapEnabled checks if swap functionality is enabled for this pool
func (l *CPMMPool) IsSwapEnabled() bool {
	// Bit 2 corresponds to Swap functionality
	// If bit is 0, swap is enabled; if bit is 1, swap is disabled
	swapBit := (l.Status >> 2) & 1
	return swapBit == 0
}

// SwapSides fixes the vault/mint/program assignment for one swap direction.
type SwapSides struct {
	InputMint     solana.PublicKey
	OutputMint    solana.PublicKey
	InputVault    solana.PublicKey
	OutputVault   solana.PublicKey
	InputProgram  solana.PublicKey
	OutputProgram solana.PublicKey
}

// ResolveVaults maps the input mint onto the pool's stored token ordering.
// Both quoting and instruction building go through here, so vault selection
// can never disagree between the two.
func (pool *CPMMPool) ResolveVaults(inputMint solana.PublicKey) (SwapSides, error) {
	switch {
	case inputMint.Equals(pool.Token0Mint):
		return SwapSides{
			InputMint:     pool.Token0Mint,
			OutputMint:    pool.Token1Mint,
			InputVault:    pool.Token0Vault,
			OutputVault:   pool.Token1Vault,
			InputProgram:  pool.Token0Program,
			OutputProgram: pool.Token1Program,
		}, nil
	case inputMint.Equals(pool.Token1Mint):
		return SwapSides{
			InputMint:     pool.Token1Mint,
			OutputMint:    pool.Token0Mint,
			InputVault:    pool.Token1Vault,
			OutputVault:   pool.Token0Vault,
			InputProgram:  pool.Token1Program,
			OutputProgram: pool.Token0Program,
		}, nil
	default:
		return SwapSides{}, fmt.Errorf("mint %s is not part of pool %s", inputMint, pool.PoolId)
	}
}

// quoteInt is a convenience bridge to the cosmossdk amount type used at the
// API boundary.
func quoteInt(v uint64) cosmath.Int {
	return cosmath.NewIntFromUint64(v)
}
