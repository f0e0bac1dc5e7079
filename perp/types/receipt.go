package types

// ReceiptKind 回执种类。与动作种类一一对应，另加 Err。
type ReceiptKind uint8

const (
	ReceiptErr             ReceiptKind = 0
	ReceiptCreateSession   ReceiptKind = 1
	ReceiptRevokeSession   ReceiptKind = 2
	ReceiptWithdraw        ReceiptKind = 3
	ReceiptPlaceOrder      ReceiptKind = 4
	ReceiptCancelOrderByID ReceiptKind = 5
	ReceiptTransfer        ReceiptKind = 6
)

func (k ReceiptKind) String() string {
	switch k {
	case ReceiptErr:
		return "Err"
	case ReceiptCreateSession:
		return "CreateSession"
	case ReceiptRevokeSession:
		return "RevokeSession"
	case ReceiptWithdraw:
		return "Withdraw"
	case ReceiptPlaceOrder:
		return "PlaceOrder"
	case ReceiptCancelOrderByID:
		return "CancelOrderById"
	case ReceiptTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// ReceiptPayload 回执载荷
type ReceiptPayload interface {
	ReceiptKind() ReceiptKind
}

// Receipt 服务端对一个已提交动作的回执。每个动作恰好产生一个回执，
// 要么是与动作种类匹配的结果，要么是 Err。
type Receipt struct {
	Payload ReceiptPayload
}

// Kind 返回回执种类
func (r *Receipt) Kind() ReceiptKind {
	return r.Payload.ReceiptKind()
}

// ErrResult 服务端错误回执
type ErrResult struct {
	Code    uint32
	Message string
}

func (ErrResult) ReceiptKind() ReceiptKind { return ReceiptErr }

// CreateSessionResult 会话创建结果
type CreateSessionResult struct {
	SessionID uint64
}

func (CreateSessionResult) ReceiptKind() ReceiptKind { return ReceiptCreateSession }

// RevokeSessionResult 会话撤销结果
type RevokeSessionResult struct{}

func (RevokeSessionResult) ReceiptKind() ReceiptKind { return ReceiptRevokeSession }

// WithdrawResult 提现受理结果
type WithdrawResult struct{}

func (WithdrawResult) ReceiptKind() ReceiptKind { return ReceiptWithdraw }

// PlaceOrderResult 下单结果
type PlaceOrderResult struct {
	OrderID uint64
	Posted  bool // 是否有剩余量挂入订单簿
}

func (PlaceOrderResult) ReceiptKind() ReceiptKind { return ReceiptPlaceOrder }

// CancelOrderResult 撤单结果
type CancelOrderResult struct {
	OrderID uint64
}

func (CancelOrderResult) ReceiptKind() ReceiptKind { return ReceiptCancelOrderByID }

// TransferResult 转账结果。收款方为新开账户时返回新账户号。
type TransferResult struct {
	ToAccountID uint64
}

func (TransferResult) ReceiptKind() ReceiptKind { return ReceiptTransfer }

// ExpectedReceiptKind 返回某动作种类对应的成功回执种类
func ExpectedReceiptKind(k ActionKind) ReceiptKind {
	switch k {
	case ActionCreateSession:
		return ReceiptCreateSession
	case ActionRevokeSession:
		return ReceiptRevokeSession
	case ActionWithdraw:
		return ReceiptWithdraw
	case ActionPlaceOrder:
		return ReceiptPlaceOrder
	case ActionCancelOrderByID:
		return ReceiptCancelOrderByID
	case ActionTransfer:
		return ReceiptTransfer
	default:
		return ReceiptErr
	}
}
