package client

import (
	"context"
	"fmt"

	"github.com/betbot/goperp/perp/signing"
	"github.com/betbot/goperp/perp/types"
	"github.com/betbot/goperp/perp/wire"
	"github.com/betbot/goperp/pkg/logger"
	"github.com/betbot/goperp/pkg/ratelimit"
)

// ByteChannel 一次请求-响应往返的字节通道。超时/取消由实现方
// 通过 ctx 处理，核心不做重试与退避。
type ByteChannel interface {
	RoundTrip(ctx context.Context, payload []byte) ([]byte, error)
}

// Transport 动作提交编排：编码 → 签名 → 发送 → 解码 → 回执校验。
// 每次 Submit 单次尝试、无共享状态，任何失败对本次调用都是终态。
type Transport struct {
	channel ByteChannel
	wallet  signing.WalletSigner
	session signing.SessionSigner
	limiter ratelimit.RateLimiter // 可选，nil 表示不限速
}

// NewTransport 创建提交编排器。wallet / session 按需注入：
// 只做交易动作可以不配 wallet，只管理会话可以不配 session。
func NewTransport(channel ByteChannel, wallet signing.WalletSigner, session signing.SessionSigner) *Transport {
	return &Transport{channel: channel, wallet: wallet, session: session}
}

// SetRateLimiter 配置客户端侧提交限速（默认关闭）
func (t *Transport) SetRateLimiter(l ratelimit.RateLimiter) {
	t.limiter = l
}

// Submit 提交一个已构建的动作并返回类型化的回执载荷。
//   - 回执为 Err → *types.ServerError
//   - 回执种类与动作变体不匹配 → ProtocolError: unexpected receipt kind
//     （防御客户端/服务端协议版本漂移）
func (t *Transport) Submit(ctx context.Context, action *types.Action) (types.ReceiptPayload, error) {
	encoded, err := wire.EncodeAction(action)
	if err != nil {
		return nil, err
	}

	// 会话生命周期动作走钱包签名，交易/资产动作走会话签名。
	// 按动作类别选择，不由调用方指定。
	var authed []byte
	switch action.Kind() {
	case types.ActionCreateSession, types.ActionRevokeSession:
		if t.wallet == nil {
			return nil, fmt.Errorf("未配置钱包签名器，无法提交 %s", action.Kind())
		}
		authed, err = signing.AuthenticateWallet(encoded, t.wallet)
	case types.ActionWithdraw, types.ActionPlaceOrder, types.ActionCancelOrderByID, types.ActionTransfer:
		if t.session == nil {
			return nil, fmt.Errorf("未配置会话签名器，无法提交 %s", action.Kind())
		}
		authed, err = signing.AuthenticateSession(encoded, t.session)
	default:
		return nil, fmt.Errorf("未知动作种类: %d", action.Kind())
	}
	if err != nil {
		return nil, err
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	logger.Debugf("提交动作 %s: ts=%d nonce=%d payload=%dB", action.Kind(), action.Timestamp, action.Nonce, len(authed))
	resp, err := t.channel.RoundTrip(ctx, authed)
	if err != nil {
		return nil, fmt.Errorf("动作往返失败: %w", err)
	}
	logger.Debugf("收到回执: %dB", len(resp))

	receipt, err := wire.DecodeReceipt(resp)
	if err != nil {
		return nil, err
	}
	if e, ok := receipt.Payload.(types.ErrResult); ok {
		return nil, &types.ServerError{Code: e.Code, Message: e.Message}
	}
	if receipt.Kind() != types.ExpectedReceiptKind(action.Kind()) {
		return nil, &types.ProtocolError{
			Op:     "submit",
			Reason: types.ReasonUnexpectedReceipt,
			Detail: fmt.Sprintf("动作 %s 收到回执 %s", action.Kind(), receipt.Kind()),
		}
	}
	return receipt.Payload, nil
}
