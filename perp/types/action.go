package types

// ActionKind 动作种类
type ActionKind uint8

const (
	ActionCreateSession   ActionKind = 0
	ActionRevokeSession   ActionKind = 1
	ActionWithdraw        ActionKind = 2
	ActionPlaceOrder      ActionKind = 3
	ActionCancelOrderByID ActionKind = 4
	ActionTransfer        ActionKind = 5
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreateSession:
		return "CreateSession"
	case ActionRevokeSession:
		return "RevokeSession"
	case ActionWithdraw:
		return "Withdraw"
	case ActionPlaceOrder:
		return "PlaceOrder"
	case ActionCancelOrderByID:
		return "CancelOrderById"
	case ActionTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// ActionPayload 动作载荷（六个变体之一）
type ActionPayload interface {
	ActionKind() ActionKind
}

// Action 提交给撮合服务的指令。构建完成后不可变。
// Timestamp 单位为 1/10000 毫秒（亚毫秒级 epoch 时间），由调用方提供；
// Nonce 在同一 Timestamp 内唯一。
type Action struct {
	Timestamp uint64
	Nonce     uint32
	Payload   ActionPayload
}

// Kind 返回动作种类
func (a *Action) Kind() ActionKind {
	return a.Payload.ActionKind()
}

// CreateSession 创建会话：用钱包签名授权一个临时 Ed25519 会话密钥
type CreateSession struct {
	UserPubkey      []byte // Secp256k1 压缩公钥，33 字节
	SessionPubkey   []byte // Ed25519 公钥，32 字节
	ExpiryTimestamp uint64
}

func (CreateSession) ActionKind() ActionKind { return ActionCreateSession }

// RevokeSession 撤销会话
type RevokeSession struct {
	SessionID uint64
}

func (RevokeSession) ActionKind() ActionKind { return ActionRevokeSession }

// Withdraw 提现
type Withdraw struct {
	SessionID uint64
	TokenID   uint32
	Amount    uint64 // 按 token 精度缩放后的整数金额
}

func (Withdraw) ActionKind() ActionKind { return ActionWithdraw }

// PlaceOrder 下单
type PlaceOrder struct {
	SessionID     uint64
	SenderID      *uint64 // 发起账户（可选）
	DelegatorID   *uint64 // 被代理清算的目标账户（可选）
	MarketID      uint32
	Side          Side
	FillMode      FillMode
	IsReduceOnly  bool
	Price         uint64   // 按市场价格精度缩放
	Size          uint64   // 按市场数量精度缩放
	QuoteSize     WideUint // 按 priceDecimals+sizeDecimals 缩放的 128 位金额
	ClientOrderID *uint64  // 客户端自定义订单号（可选）
}

func (PlaceOrder) ActionKind() ActionKind { return ActionPlaceOrder }

// CancelOrderByID 按订单号撤单
type CancelOrderByID struct {
	SessionID   uint64
	SenderID    *uint64
	DelegatorID *uint64
	OrderID     uint64
}

func (CancelOrderByID) ActionKind() ActionKind { return ActionCancelOrderByID }

// Transfer 账户间转账。ToAccountID 为 nil 表示由服务端为收款方
// 新开账户，并在回执中返回新账户号。
type Transfer struct {
	SessionID     uint64
	FromAccountID uint64
	ToAccountID   *uint64
	TokenID       uint32
	Amount        uint64
}

func (Transfer) ActionKind() ActionKind { return ActionTransfer }
