package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbot/goperp/perp/scale"
	"github.com/betbot/goperp/perp/types"
)

// 时间戳单位：1/10000 毫秒（亚毫秒级 epoch 时间）
const TimestampsPerMilli uint64 = 10000

// SessionTTL 默认会话时长：10 分钟，按时间戳原生单位表示
const SessionTTL uint64 = 10 * 60 * 1000 * TimestampsPerMilli

// Clock 返回当前时间戳（1/10000 毫秒单位）
type Clock func() uint64

// DefaultClock 取系统时间。UnixMicro × 10 即 1/10000 毫秒。
func DefaultClock() uint64 {
	return uint64(time.Now().UnixMicro()) * 10
}

// Builder 动作构建器。每个变体一个构建方法，构建前完成全部参数校验，
// 校验失败的动作不会到达网络。构建即消耗一个 (timestamp, nonce)。
type Builder struct {
	clock  Clock
	nonces *NonceGenerator
}

// NewBuilder 创建动作构建器。clock 为 nil 时使用系统时钟。
func NewBuilder(clock Clock) *Builder {
	if clock == nil {
		clock = DefaultClock
	}
	return &Builder{clock: clock, nonces: &NonceGenerator{}}
}

// stamp 取当前时间戳并同步签发 nonce（必须在任何挂起点之前）
func (b *Builder) stamp() (uint64, uint32) {
	ts := b.clock()
	return ts, b.nonces.Next(ts)
}

// ValidatePubkey 校验公钥长度是否符合密钥类型要求。
// Bls12_381 不支持用户/会话密钥，任何长度都拒绝。
func ValidatePubkey(field string, kt types.KeyType, key []byte) error {
	want, ok := kt.PubkeyLen()
	if !ok || len(key) != want {
		return &types.ValidationError{Field: field, Reason: types.ReasonInvalidKeyLength}
	}
	return nil
}

// CreateSession 构建创建会话动作。
// userPubkey 必须是 33 字节 Secp256k1 压缩公钥，sessionPubkey 必须是
// 32 字节 Ed25519 公钥。expiry 为 0 时默认 now + SessionTTL；
// 调用方给定时必须晚于当前时间戳。
func (b *Builder) CreateSession(userPubkey, sessionPubkey []byte, expiry uint64) (*types.Action, error) {
	if err := ValidatePubkey("userPubkey", types.KeyTypeSecp256k1, userPubkey); err != nil {
		return nil, err
	}
	if err := ValidatePubkey("sessionPubkey", types.KeyTypeEd25519, sessionPubkey); err != nil {
		return nil, err
	}
	ts, nonce := b.stamp()
	if expiry == 0 {
		expiry = ts + SessionTTL
	} else if expiry <= ts {
		return nil, &types.ValidationError{Field: "expiry", Reason: types.ReasonExpiryInPast}
	}
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload: types.CreateSession{
			UserPubkey:      append([]byte(nil), userPubkey...),
			SessionPubkey:   append([]byte(nil), sessionPubkey...),
			ExpiryTimestamp: expiry,
		},
	}, nil
}

// RevokeSession 构建撤销会话动作
func (b *Builder) RevokeSession(sessionID uint64) (*types.Action, error) {
	if sessionID == 0 {
		return nil, &types.ValidationError{Field: "sessionId", Reason: types.ReasonMissingReference}
	}
	ts, nonce := b.stamp()
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload:   types.RevokeSession{SessionID: sessionID},
	}, nil
}

// WithdrawParams 提现参数
type WithdrawParams struct {
	SessionID     uint64
	TokenID       uint32
	TokenDecimals int32
	Amount        decimal.Decimal
}

// Withdraw 构建提现动作。缩放后的金额必须严格大于零。
func (b *Builder) Withdraw(p WithdrawParams) (*types.Action, error) {
	if p.SessionID == 0 {
		return nil, &types.ValidationError{Field: "sessionId", Reason: types.ReasonMissingReference}
	}
	amount, err := scale.ToScaled64(p.Amount, p.TokenDecimals)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, &types.ValidationError{Field: "amount", Reason: types.ReasonNonPositiveAmount}
	}
	ts, nonce := b.stamp()
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload: types.Withdraw{
			SessionID: p.SessionID,
			TokenID:   p.TokenID,
			Amount:    amount,
		},
	}, nil
}

// PlaceOrderParams 下单参数。Price / Size / QuoteSize 省略时为十进制零，
// 分别按市场价格、数量精度缩放到 64 位；QuoteSize 按
// PriceDecimals+SizeDecimals 缩放到 128 位再拆成 (lo, hi) 传输。
type PlaceOrderParams struct {
	SessionID     uint64
	SenderID      *uint64
	DelegatorID   *uint64 // 代表其清算的目标账户
	MarketID      uint32
	Side          types.Side
	FillMode      types.FillMode
	IsReduceOnly  bool
	Price         decimal.Decimal
	Size          decimal.Decimal
	QuoteSize     decimal.Decimal
	PriceDecimals int32
	SizeDecimals  int32
	ClientOrderID *uint64
}

// PlaceOrder 构建下单动作
func (b *Builder) PlaceOrder(p PlaceOrderParams) (*types.Action, error) {
	if p.SessionID == 0 {
		return nil, &types.ValidationError{Field: "sessionId", Reason: types.ReasonMissingReference}
	}
	if !p.Side.Valid() {
		return nil, &types.ValidationError{Field: "side", Reason: types.ReasonInvalidSide}
	}
	if !p.FillMode.Valid() {
		return nil, &types.ValidationError{Field: "fillMode", Reason: types.ReasonInvalidFillMode}
	}
	price, err := scale.ToScaled64(p.Price, p.PriceDecimals)
	if err != nil {
		return nil, err
	}
	size, err := scale.ToScaled64(p.Size, p.SizeDecimals)
	if err != nil {
		return nil, err
	}
	quoteWide, err := scale.ToScaled(p.QuoteSize, p.PriceDecimals+p.SizeDecimals, scale.Width128)
	if err != nil {
		return nil, err
	}
	quote, err := scale.SplitWide(quoteWide)
	if err != nil {
		return nil, err
	}
	ts, nonce := b.stamp()
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload: types.PlaceOrder{
			SessionID:     p.SessionID,
			SenderID:      p.SenderID,
			DelegatorID:   p.DelegatorID,
			MarketID:      p.MarketID,
			Side:          p.Side,
			FillMode:      p.FillMode,
			IsReduceOnly:  p.IsReduceOnly,
			Price:         price,
			Size:          size,
			QuoteSize:     quote,
			ClientOrderID: p.ClientOrderID,
		},
	}, nil
}

// CancelOrderParams 撤单参数
type CancelOrderParams struct {
	SessionID   uint64
	SenderID    *uint64
	DelegatorID *uint64
	OrderID     uint64
}

// CancelOrderByID 构建按订单号撤单动作
func (b *Builder) CancelOrderByID(p CancelOrderParams) (*types.Action, error) {
	if p.SessionID == 0 {
		return nil, &types.ValidationError{Field: "sessionId", Reason: types.ReasonMissingReference}
	}
	ts, nonce := b.stamp()
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload: types.CancelOrderByID{
			SessionID:   p.SessionID,
			SenderID:    p.SenderID,
			DelegatorID: p.DelegatorID,
			OrderID:     p.OrderID,
		},
	}, nil
}

// TransferParams 转账参数。ToAccountID 为 nil 表示由服务端为收款方新开账户。
type TransferParams struct {
	SessionID     uint64
	FromAccountID uint64
	ToAccountID   *uint64
	TokenID       uint32
	TokenDecimals int32
	Amount        decimal.Decimal
}

// Transfer 构建转账动作
func (b *Builder) Transfer(p TransferParams) (*types.Action, error) {
	if p.SessionID == 0 {
		return nil, &types.ValidationError{Field: "sessionId", Reason: types.ReasonMissingReference}
	}
	if p.FromAccountID == 0 {
		return nil, &types.ValidationError{Field: "fromAccountId", Reason: types.ReasonMissingReference}
	}
	amount, err := scale.ToScaled64(p.Amount, p.TokenDecimals)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, &types.ValidationError{Field: "amount", Reason: types.ReasonNonPositiveAmount}
	}
	ts, nonce := b.stamp()
	return &types.Action{
		Timestamp: ts,
		Nonce:     nonce,
		Payload: types.Transfer{
			SessionID:     p.SessionID,
			FromAccountID: p.FromAccountID,
			ToAccountID:   p.ToAccountID,
			TokenID:       p.TokenID,
			Amount:        amount,
		},
	}, nil
}
