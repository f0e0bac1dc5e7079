// Package client 是 goperp 的对外入口：组装动作构建、签名、传输与
// 回执校验，向调用方暴露按动作种类划分的高层方法。
package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/betbot/goperp/perp/signing"
	"github.com/betbot/goperp/perp/types"
	"github.com/betbot/goperp/pkg/logger"
	"github.com/betbot/goperp/pkg/ratelimit"
)

// Client 交易客户端。持有活跃会话号等调用方状态；
// 核心管线（构建/签名/传输）本身无状态。
type Client struct {
	builder   *Builder
	transport *Transport
	markets   *MarketRegistry
	tokens    *TokenRegistry
	wallet    *signing.PrivateKeyWalletSigner
	session   *signing.Ed25519SessionSigner
	sessionID uint64 // CreateSession 成功后记录，后续动作省略 SessionID 时注入
}

// NewClient 创建交易客户端。wallet / session 按需注入（见 Transport）。
func NewClient(
	channel ByteChannel,
	wallet *signing.PrivateKeyWalletSigner,
	session *signing.Ed25519SessionSigner,
	markets *MarketRegistry,
	tokens *TokenRegistry,
) *Client {
	var w signing.WalletSigner
	var s signing.SessionSigner
	if wallet != nil {
		w = wallet
	}
	if session != nil {
		s = session
	}
	if markets == nil {
		markets = NewMarketRegistry()
	}
	if tokens == nil {
		tokens = NewTokenRegistry()
	}
	return &Client{
		builder:   NewBuilder(nil),
		transport: NewTransport(channel, w, s),
		markets:   markets,
		tokens:    tokens,
		wallet:    wallet,
		session:   session,
	}
}

// SetClock 覆盖时间源（测试用）
func (c *Client) SetClock(clock Clock) {
	c.builder = NewBuilder(clock)
}

// SetRateLimiter 配置客户端侧提交限速
func (c *Client) SetRateLimiter(l ratelimit.RateLimiter) {
	c.transport.SetRateLimiter(l)
}

// SessionID 返回当前活跃会话号（尚未创建时为 0）
func (c *Client) SessionID() uint64 {
	return c.sessionID
}

// SetActiveSession 恢复既有会话（例如进程重启后沿用未过期的会话）。
// 过期与否由服务端裁决，客户端不跟踪。
func (c *Client) SetActiveSession(sessionID uint64) {
	c.sessionID = sessionID
}

// Markets 返回市场规格表
func (c *Client) Markets() *MarketRegistry {
	return c.markets
}

// Tokens 返回代币规格表
func (c *Client) Tokens() *TokenRegistry {
	return c.tokens
}

// CreateSession 创建会话：用钱包密钥授权本客户端的 Ed25519 会话公钥。
// expiry 为 0 时默认 now + SessionTTL。成功后记录活跃会话号。
func (c *Client) CreateSession(ctx context.Context, expiry uint64) (*types.Session, error) {
	if c.wallet == nil || c.session == nil {
		return nil, fmt.Errorf("创建会话需要同时配置钱包与会话签名器")
	}
	userPubkey := c.wallet.Pubkey()
	sessionPubkey := c.session.Pubkey()
	action, err := c.builder.CreateSession(userPubkey, sessionPubkey, expiry)
	if err != nil {
		return nil, err
	}
	payload, err := c.transport.Submit(ctx, action)
	if err != nil {
		return nil, err
	}
	result := payload.(types.CreateSessionResult)
	c.sessionID = result.SessionID
	cs := action.Payload.(types.CreateSession)
	logger.Infof("会话已创建: id=%d expiry=%d", result.SessionID, cs.ExpiryTimestamp)
	return &types.Session{
		SessionID:       result.SessionID,
		UserPubkey:      userPubkey,
		SessionPubkey:   sessionPubkey,
		ExpiryTimestamp: cs.ExpiryTimestamp,
	}, nil
}

// RevokeSession 撤销会话。sessionID 为 0 时撤销当前活跃会话。
func (c *Client) RevokeSession(ctx context.Context, sessionID uint64) error {
	if sessionID == 0 {
		sessionID = c.sessionID
	}
	action, err := c.builder.RevokeSession(sessionID)
	if err != nil {
		return err
	}
	if _, err := c.transport.Submit(ctx, action); err != nil {
		return err
	}
	if sessionID == c.sessionID {
		c.sessionID = 0
	}
	logger.Infof("会话已撤销: id=%d", sessionID)
	return nil
}

// Withdraw 按代币符号提现
func (c *Client) Withdraw(ctx context.Context, tokenSymbol string, amount decimal.Decimal) error {
	token, err := c.tokens.BySymbol(tokenSymbol)
	if err != nil {
		return err
	}
	action, err := c.builder.Withdraw(WithdrawParams{
		SessionID:     c.sessionID,
		TokenID:       token.TokenID,
		TokenDecimals: token.Decimals,
		Amount:        amount,
	})
	if err != nil {
		return err
	}
	_, err = c.transport.Submit(ctx, action)
	return err
}

// OrderRequest 下单请求（市场用符号或市场号指定，精度由规格表提供）
type OrderRequest struct {
	Symbol        string // 与 MarketID 二选一
	MarketID      uint32
	Side          types.Side
	FillMode      types.FillMode
	IsReduceOnly  bool
	Price         decimal.Decimal
	Size          decimal.Decimal
	QuoteSize     decimal.Decimal
	SenderID      *uint64
	DelegatorID   *uint64
	ClientOrderID *uint64
}

// PlaceOrder 下单，返回订单号等结果
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (types.PlaceOrderResult, error) {
	var market MarketSpec
	var err error
	if req.Symbol != "" {
		market, err = c.markets.BySymbol(req.Symbol)
	} else {
		market, err = c.markets.ByID(req.MarketID)
	}
	if err != nil {
		return types.PlaceOrderResult{}, err
	}
	action, err := c.builder.PlaceOrder(PlaceOrderParams{
		SessionID:     c.sessionID,
		SenderID:      req.SenderID,
		DelegatorID:   req.DelegatorID,
		MarketID:      market.MarketID,
		Side:          req.Side,
		FillMode:      req.FillMode,
		IsReduceOnly:  req.IsReduceOnly,
		Price:         req.Price,
		Size:          req.Size,
		QuoteSize:     req.QuoteSize,
		PriceDecimals: market.PriceDecimals,
		SizeDecimals:  market.SizeDecimals,
		ClientOrderID: req.ClientOrderID,
	})
	if err != nil {
		return types.PlaceOrderResult{}, err
	}
	payload, err := c.transport.Submit(ctx, action)
	if err != nil {
		return types.PlaceOrderResult{}, err
	}
	result := payload.(types.PlaceOrderResult)
	logger.Infof("下单成功: market=%s order=%d posted=%v", market.Symbol, result.OrderID, result.Posted)
	return result, nil
}

// CancelOrder 按订单号撤单
func (c *Client) CancelOrder(ctx context.Context, orderID uint64) (types.CancelOrderResult, error) {
	action, err := c.builder.CancelOrderByID(CancelOrderParams{
		SessionID: c.sessionID,
		OrderID:   orderID,
	})
	if err != nil {
		return types.CancelOrderResult{}, err
	}
	payload, err := c.transport.Submit(ctx, action)
	if err != nil {
		return types.CancelOrderResult{}, err
	}
	return payload.(types.CancelOrderResult), nil
}

// TransferRequest 转账请求。ToAccountID 为 nil 表示为收款方新开账户，
// 新账户号在结果中返回。
type TransferRequest struct {
	FromAccountID uint64
	ToAccountID   *uint64
	TokenSymbol   string
	Amount        decimal.Decimal
}

// Transfer 账户间转账
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (types.TransferResult, error) {
	token, err := c.tokens.BySymbol(req.TokenSymbol)
	if err != nil {
		return types.TransferResult{}, err
	}
	action, err := c.builder.Transfer(TransferParams{
		SessionID:     c.sessionID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		TokenID:       token.TokenID,
		TokenDecimals: token.Decimals,
		Amount:        req.Amount,
	})
	if err != nil {
		return types.TransferResult{}, err
	}
	payload, err := c.transport.Submit(ctx, action)
	if err != nil {
		return types.TransferResult{}, err
	}
	return payload.(types.TransferResult), nil
}
