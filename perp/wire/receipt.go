package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/betbot/goperp/perp/types"
)

// Receipt 消息布局（oneof result）：
//
//	1  err            {1: code, 2: message}
//	10 create_session {1: session_id}
//	11 revoke_session {}
//	12 withdraw       {}
//	13 place_order    {1: order_id, 2: posted}
//	14 cancel_order   {1: order_id}
//	15 transfer       {1: to_account_id}
const (
	fieldErr                 = 1
	fieldCreateSessionResult = 10
	fieldRevokeSessionResult = 11
	fieldWithdrawResult      = 12
	fieldPlaceOrderResult    = 13
	fieldCancelOrderResult   = 14
	fieldTransferResult      = 15
)

// MarshalReceipt 按 protobuf wire 格式序列化回执（不含长度前缀）
func MarshalReceipt(r *types.Receipt) ([]byte, error) {
	if r == nil || r.Payload == nil {
		return nil, errMalformed("marshal receipt")
	}
	var sub []byte
	var num protowire.Number
	switch p := r.Payload.(type) {
	case types.ErrResult:
		num = fieldErr
		sub = appendVarintField(nil, 1, uint64(p.Code))
		sub = appendBytesField(sub, 2, []byte(p.Message))
	case types.CreateSessionResult:
		num = fieldCreateSessionResult
		sub = appendVarintField(nil, 1, p.SessionID)
	case types.RevokeSessionResult:
		num = fieldRevokeSessionResult
	case types.WithdrawResult:
		num = fieldWithdrawResult
	case types.PlaceOrderResult:
		num = fieldPlaceOrderResult
		sub = appendVarintField(nil, 1, p.OrderID)
		sub = appendBoolField(sub, 2, p.Posted)
	case types.CancelOrderResult:
		num = fieldCancelOrderResult
		sub = appendVarintField(nil, 1, p.OrderID)
	case types.TransferResult:
		num = fieldTransferResult
		sub = appendVarintField(nil, 1, p.ToAccountID)
	default:
		return nil, errMalformed("marshal receipt")
	}
	b := protowire.AppendTag(nil, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub), nil
}

// UnmarshalReceipt 从 protobuf wire 字节还原回执
func UnmarshalReceipt(b []byte) (*types.Receipt, error) {
	const op = "unmarshal receipt"
	r := &types.Receipt{}
	err := walkFields(op, b, func(num protowire.Number, typ protowire.Type, fb []byte) (int, error) {
		if typ != protowire.BytesType {
			return 0, nil
		}
		if num != fieldErr && (num < fieldCreateSessionResult || num > fieldTransferResult) {
			return 0, nil
		}
		sub, n, err := consumeBytes(op, fb)
		if err != nil {
			return 0, err
		}
		payload, err := unmarshalReceiptPayload(num, sub)
		if err != nil {
			return 0, err
		}
		r.Payload = payload
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	if r.Payload == nil {
		return nil, errMalformed(op)
	}
	return r, nil
}

func unmarshalReceiptPayload(num protowire.Number, sub []byte) (types.ReceiptPayload, error) {
	const op = "unmarshal receipt"
	switch num {
	case fieldErr:
		var p types.ErrResult
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			switch {
			case fnum == 1 && typ == protowire.VarintType:
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				p.Code = uint32(v)
				return n, nil
			case fnum == 2 && typ == protowire.BytesType:
				v, n, err := consumeBytes(op, fb)
				if err != nil {
					return 0, err
				}
				p.Message = string(v)
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldCreateSessionResult:
		var p types.CreateSessionResult
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			if fnum == 1 && typ == protowire.VarintType {
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				p.SessionID = v
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldRevokeSessionResult:
		return types.RevokeSessionResult{}, nil

	case fieldWithdrawResult:
		return types.WithdrawResult{}, nil

	case fieldPlaceOrderResult:
		var p types.PlaceOrderResult
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			if typ != protowire.VarintType {
				return 0, nil
			}
			v, n, err := consumeVarint(op, fb)
			if err != nil {
				return 0, err
			}
			switch fnum {
			case 1:
				p.OrderID = v
			case 2:
				p.Posted = v != 0
			default:
				return 0, nil
			}
			return n, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldCancelOrderResult:
		var p types.CancelOrderResult
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			if fnum == 1 && typ == protowire.VarintType {
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				p.OrderID = v
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldTransferResult:
		var p types.TransferResult
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			if fnum == 1 && typ == protowire.VarintType {
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				p.ToAccountID = v
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, errMalformed(op)
}
