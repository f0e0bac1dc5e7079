package client

import (
	"fmt"
	"strings"
)

// MarketSpec 市场精度规格。下单时价格/数量按这里的精度缩放，
// quote size 按 PriceDecimals+SizeDecimals 缩放。
type MarketSpec struct {
	MarketID      uint32
	Symbol        string // e.g. "btcusd"
	PriceDecimals int32
	SizeDecimals  int32
}

// TokenSpec 代币精度规格（提现/转账金额按 Decimals 缩放）
type TokenSpec struct {
	TokenID  uint32
	Symbol   string // e.g. "usdc"
	Decimals int32
}

// MarketRegistry 市场规格表
type MarketRegistry struct {
	byID     map[uint32]MarketSpec
	bySymbol map[string]MarketSpec
}

// NewMarketRegistry 创建市场规格表
func NewMarketRegistry(specs ...MarketSpec) *MarketRegistry {
	r := &MarketRegistry{
		byID:     make(map[uint32]MarketSpec, len(specs)),
		bySymbol: make(map[string]MarketSpec, len(specs)),
	}
	for _, s := range specs {
		r.Add(s)
	}
	return r
}

// Add 登记一个市场
func (r *MarketRegistry) Add(s MarketSpec) {
	r.byID[s.MarketID] = s
	if s.Symbol != "" {
		r.bySymbol[strings.ToLower(s.Symbol)] = s
	}
}

// ByID 按市场号查找
func (r *MarketRegistry) ByID(id uint32) (MarketSpec, error) {
	s, ok := r.byID[id]
	if !ok {
		return MarketSpec{}, fmt.Errorf("未登记的市场: %d", id)
	}
	return s, nil
}

// BySymbol 按符号查找
func (r *MarketRegistry) BySymbol(symbol string) (MarketSpec, error) {
	s, ok := r.bySymbol[strings.ToLower(symbol)]
	if !ok {
		return MarketSpec{}, fmt.Errorf("未登记的市场: %q", symbol)
	}
	return s, nil
}

// TokenRegistry 代币规格表
type TokenRegistry struct {
	byID     map[uint32]TokenSpec
	bySymbol map[string]TokenSpec
}

// NewTokenRegistry 创建代币规格表
func NewTokenRegistry(specs ...TokenSpec) *TokenRegistry {
	r := &TokenRegistry{
		byID:     make(map[uint32]TokenSpec, len(specs)),
		bySymbol: make(map[string]TokenSpec, len(specs)),
	}
	for _, s := range specs {
		r.Add(s)
	}
	return r
}

// Add 登记一个代币
func (r *TokenRegistry) Add(s TokenSpec) {
	r.byID[s.TokenID] = s
	if s.Symbol != "" {
		r.bySymbol[strings.ToLower(s.Symbol)] = s
	}
}

// ByID 按代币号查找
func (r *TokenRegistry) ByID(id uint32) (TokenSpec, error) {
	s, ok := r.byID[id]
	if !ok {
		return TokenSpec{}, fmt.Errorf("未登记的代币: %d", id)
	}
	return s, nil
}

// BySymbol 按符号查找
func (r *TokenRegistry) BySymbol(symbol string) (TokenSpec, error) {
	s, ok := r.bySymbol[strings.ToLower(symbol)]
	if !ok {
		return TokenSpec{}, fmt.Errorf("未登记的代币: %q", symbol)
	}
	return s, nil
}
