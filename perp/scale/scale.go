// Package scale 负责十进制数量与定宽无符号整数之间的精度安全转换。
// wire 协议不携带原生小数类型，所有金额/价格/数量都按 10^decimals
// 缩放为 64 位或 128 位无符号整数传输。
package scale

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/betbot/goperp/perp/types"
)

// Width 目标整数位宽
type Width int

const (
	Width64  Width = 64
	Width128 Width = 128
)

// 各位宽允许的最大缩放指数。来源实现按 20 位有效数字 / ±28 指数范围
// （64 位）与 40 位有效数字 / ±56 指数范围（128 位）配置十进制后端；
// shopspring/decimal 的系数是任意精度 big.Int，乘方缩放本身不丢精度，
// 这里保留指数上限作为输入护栏。
const (
	MaxDecimals64  = 28
	MaxDecimals128 = 56
)

var (
	maxUint64  = new(big.Int).SetUint64(^uint64(0))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// ToScaled 把十进制数量缩放为定宽无符号整数：round_down(value × 10^decimals)。
//   - value 为负 → ValidationError: negative
//   - value 非零但缩放后截断为零 → ValidationError: precision loss
//     （防止把非零意图悄悄变成零值动作提交出去）
//   - 结果超过 2^width−1 → ValidationError: out of range
func ToScaled(value decimal.Decimal, decimals int32, width Width) (*big.Int, error) {
	max := maxUint64
	maxDecimals := int32(MaxDecimals64)
	if width == Width128 {
		max = maxUint128
		maxDecimals = MaxDecimals128
	}
	if decimals < 0 || decimals > maxDecimals {
		return nil, &types.ValidationError{Field: "decimals", Reason: types.ReasonOutOfRange}
	}
	if value.Sign() < 0 {
		return nil, &types.ValidationError{Field: "amount", Reason: types.ReasonNegative}
	}

	// Shift 只移动十进制指数，系数不变，无中间舍入；
	// BigInt 把小数部分向零截断，对非负值即向下取整。
	scaled := value.Shift(decimals).BigInt()

	if value.Sign() != 0 && scaled.Sign() == 0 {
		return nil, &types.ValidationError{Field: "amount", Reason: types.ReasonPrecisionLoss}
	}
	if scaled.Cmp(max) > 0 {
		return nil, &types.ValidationError{Field: "amount", Reason: types.ReasonOutOfRange}
	}
	return scaled, nil
}

// ToScaled64 ToScaled 的 64 位便捷封装
func ToScaled64(value decimal.Decimal, decimals int32) (uint64, error) {
	v, err := ToScaled(value, decimals, Width64)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// SplitWide 把 128 位无符号整数拆成 (低 64 位, 高 64 位) 用于传输。
// 负数或超过 2^128−1 的值被拒绝。
func SplitWide(v *big.Int) (types.WideUint, error) {
	if v == nil || v.Sign() < 0 {
		return types.WideUint{}, &types.ValidationError{Field: "wide", Reason: types.ReasonNegative}
	}
	if v.BitLen() > 128 {
		return types.WideUint{}, &types.ValidationError{Field: "wide", Reason: types.ReasonOutOfRange}
	}
	lo := new(big.Int).And(v, maxUint64)
	hi := new(big.Int).Rsh(v, 64)
	return types.WideUint{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}
