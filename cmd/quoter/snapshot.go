package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/whale-guru-dev/uniswap-v3-sdk/entities"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool"
	"github.com/whale-guru-dev/uniswap-v3-sdk/pool/ticklist"
)

// snapshotFile is the on-disk description of a pool set: a token directory
// plus pool states referencing it by address. Big quantities are decimal
// strings so they survive JSON number precision.
type snapshotFile struct {
	ChainID uint64        `json:"chainId"`
	Tokens  []tokenRecord `json:"tokens"`
	Pools   []poolRecord  `json:"pools"`
}

type tokenRecord struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

type poolRecord struct {
	Token0       string       `json:"token0"`
	Token1       string       `json:"token1"`
	Fee          uint64       `json:"fee"`
	Reserve0     string       `json:"reserve0"`
	Reserve1     string       `json:"reserve1"`
	SqrtPriceX96 string       `json:"sqrtPriceX96"`
	Liquidity    string       `json:"liquidity"`
	Ticks        []tickRecord `json:"ticks"`
}

type tickRecord struct {
	Index          int64  `json:"index"`
	LiquidityNet   string `json:"liquidityNet"`
	LiquidityGross string `json:"liquidityGross"`
}

// snapshot is the decoded, validated pool set ready for the route search.
type snapshot struct {
	tokens map[common.Address]*entities.Token
	pools  []*pool.Pool
}

func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	tokens := make(map[common.Address]*entities.Token, len(file.Tokens))
	for _, rec := range file.Tokens {
		addr := common.HexToAddress(rec.Address)
		tokens[addr] = entities.NewToken(file.ChainID, addr, rec.Decimals, rec.Symbol)
	}

	pools := make([]*pool.Pool, 0, len(file.Pools))
	for i, rec := range file.Pools {
		p, err := buildPool(tokens, rec)
		if err != nil {
			return nil, fmt.Errorf("pool %d: %w", i, err)
		}
		pools = append(pools, p)
	}

	return &snapshot{tokens: tokens, pools: pools}, nil
}

func buildPool(tokens map[common.Address]*entities.Token, rec poolRecord) (*pool.Pool, error) {
	token0, ok := tokens[common.HexToAddress(rec.Token0)]
	if !ok {
		return nil, fmt.Errorf("token0 %s not in token directory", rec.Token0)
	}
	token1, ok := tokens[common.HexToAddress(rec.Token1)]
	if !ok {
		return nil, fmt.Errorf("token1 %s not in token directory", rec.Token1)
	}

	reserve0, err := parseBig("reserve0", rec.Reserve0)
	if err != nil {
		return nil, err
	}
	reserve1, err := parseBig("reserve1", rec.Reserve1)
	if err != nil {
		return nil, err
	}
	sqrtPrice, err := parseBig("sqrtPriceX96", rec.SqrtPriceX96)
	if err != nil {
		return nil, err
	}
	liquidity, err := parseBig("liquidity", rec.Liquidity)
	if err != nil {
		return nil, err
	}

	ticks := make([]ticklist.Tick, 0, len(rec.Ticks))
	for _, t := range rec.Ticks {
		net, err := parseBig("liquidityNet", t.LiquidityNet)
		if err != nil {
			return nil, err
		}
		gross, err := parseBig("liquidityGross", t.LiquidityGross)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, ticklist.Tick{
			Index:          t.Index,
			LiquidityNet:   net,
			LiquidityGross: gross,
		})
	}
	tickList, err := ticklist.New(ticks)
	if err != nil {
		return nil, err
	}

	amount0, err := entities.NewCurrencyAmount(token0, reserve0)
	if err != nil {
		return nil, err
	}
	amount1, err := entities.NewCurrencyAmount(token1, reserve1)
	if err != nil {
		return nil, err
	}

	return pool.New(amount0, amount1, rec.Fee, sqrtPrice, liquidity, tickList)
}

// tokenBySymbolOrAddress resolves a CLI token reference. Addresses take the
// 0x form; anything else is matched against symbols case-insensitively.
func (s *snapshot) tokenBySymbolOrAddress(ref string) (*entities.Token, error) {
	if strings.HasPrefix(ref, "0x") || strings.HasPrefix(ref, "0X") {
		if tok, ok := s.tokens[common.HexToAddress(ref)]; ok {
			return tok, nil
		}
		return nil, fmt.Errorf("token %s not in snapshot", ref)
	}
	for _, tok := range s.tokens {
		if strings.EqualFold(tok.Symbol(), ref) {
			return tok, nil
		}
	}
	return nil, fmt.Errorf("token %q not in snapshot", ref)
}

func parseBig(field, value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid integer %q", field, value)
	}
	return n, nil
}
