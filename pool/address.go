package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// DefaultFactory is the canonical factory the route search uses to key
	// pool identities when the caller does not care about a specific deployment.
	DefaultFactory = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")

	// poolInitCodeHash is the keccak256 of the pool contract creation code.
	poolInitCodeHash = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")
)

// Address derives the pool's deterministic on-chain identity from the
// factory and the pool's (token0, token1, fee) triple, CREATE2 style. Two
// snapshots of the same economic pool always derive the same address, which
// is what the route search keys its visited set on.
func (p *Pool) Address(factory common.Address) common.Address {
	// abi.encode(token0, token1, fee): three left-padded 32-byte words.
	var words [96]byte
	copy(words[12:32], p.token0.Address().Bytes())
	copy(words[44:64], p.token1.Address().Bytes())
	new(big.Int).SetUint64(p.fee).FillBytes(words[64:96])
	salt := crypto.Keccak256(words[:])

	payload := make([]byte, 0, 1+common.AddressLength+2*common.HashLength)
	payload = append(payload, 0xff)
	payload = append(payload, factory.Bytes()...)
	payload = append(payload, salt...)
	payload = append(payload, poolInitCodeHash.Bytes()...)

	return common.BytesToAddress(crypto.Keccak256(payload)[12:])
}
