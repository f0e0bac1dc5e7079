package types

import "fmt"

// Side 订单方向
type Side uint8

const (
	SideAsk Side = 0 // 卖出
	SideBid Side = 1 // 买入
)

func (s Side) String() string {
	switch s {
	case SideAsk:
		return "ASK"
	case SideBid:
		return "BID"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// Valid 是否为已知方向
func (s Side) Valid() bool {
	return s == SideAsk || s == SideBid
}

// FillMode 成交模式
type FillMode uint8

const (
	FillModeLimit             FillMode = 0 // 限价单，挂单直到成交或取消
	FillModePostOnly          FillMode = 1 // 只挂单，若会立即成交则拒绝
	FillModeImmediateOrCancel FillMode = 2 // 立即成交，剩余取消
	FillModeFillOrKill        FillMode = 3 // 全部成交或全部取消
)

func (m FillMode) String() string {
	switch m {
	case FillModeLimit:
		return "LIMIT"
	case FillModePostOnly:
		return "POST_ONLY"
	case FillModeImmediateOrCancel:
		return "IOC"
	case FillModeFillOrKill:
		return "FOK"
	default:
		return fmt.Sprintf("FillMode(%d)", uint8(m))
	}
}

// Valid 是否为已知成交模式
func (m FillMode) Valid() bool {
	return m <= FillModeFillOrKill
}

// KeyType 公钥类型
type KeyType uint8

const (
	KeyTypeEd25519   KeyType = 0
	KeyTypeSecp256k1 KeyType = 1
	KeyTypeBls12_381 KeyType = 2
)

// 各类型公钥的字节长度
const (
	Ed25519PubkeyLen   = 32
	Secp256k1PubkeyLen = 33
)

func (k KeyType) String() string {
	switch k {
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	case KeyTypeBls12_381:
		return "Bls12_381"
	default:
		return fmt.Sprintf("KeyType(%d)", uint8(k))
	}
}

// PubkeyLen 返回该类型公钥要求的字节长度。
// Bls12_381 不支持用户/会话密钥，返回 ok=false。
func (k KeyType) PubkeyLen() (int, bool) {
	switch k {
	case KeyTypeEd25519:
		return Ed25519PubkeyLen, true
	case KeyTypeSecp256k1:
		return Secp256k1PubkeyLen, true
	default:
		return 0, false
	}
}

// WideUint 128 位无符号整数的传输表示（低 64 位 + 高 64 位）。
// Lo + Hi·2^64 精确还原原值。
type WideUint struct {
	Lo uint64
	Hi uint64
}

// Session 会话凭证（由 CreateSession 创建，调用方持有）
type Session struct {
	SessionID       uint64
	UserPubkey      []byte
	SessionPubkey   []byte
	ExpiryTimestamp uint64
}
