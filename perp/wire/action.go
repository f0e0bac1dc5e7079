package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/betbot/goperp/perp/types"
)

// Action 消息布局：
//
//	1  timestamp  varint
//	2  nonce      varint
//	oneof kind:
//	10 create_session      11 revoke_session   12 withdraw
//	13 place_order         14 cancel_order     15 transfer
const (
	fieldTimestamp       = 1
	fieldNonce           = 2
	fieldCreateSession   = 10
	fieldRevokeSession   = 11
	fieldWithdraw        = 12
	fieldPlaceOrder      = 13
	fieldCancelOrderByID = 14
	fieldTransfer        = 15
)

// MarshalAction 按 protobuf wire 格式序列化动作（不含长度前缀）
func MarshalAction(a *types.Action) ([]byte, error) {
	if a == nil || a.Payload == nil {
		return nil, errMalformed("marshal action")
	}
	b := appendVarintField(nil, fieldTimestamp, a.Timestamp)
	b = appendVarintField(b, fieldNonce, uint64(a.Nonce))

	var sub []byte
	var num protowire.Number
	switch p := a.Payload.(type) {
	case types.CreateSession:
		num = fieldCreateSession
		sub = appendBytesField(nil, 1, p.UserPubkey)
		sub = appendBytesField(sub, 2, p.SessionPubkey)
		sub = appendVarintField(sub, 3, p.ExpiryTimestamp)
	case types.RevokeSession:
		num = fieldRevokeSession
		sub = appendVarintField(nil, 1, p.SessionID)
	case types.Withdraw:
		num = fieldWithdraw
		sub = appendVarintField(nil, 1, p.SessionID)
		sub = appendVarintField(sub, 2, uint64(p.TokenID))
		sub = appendVarintField(sub, 3, p.Amount)
	case types.PlaceOrder:
		num = fieldPlaceOrder
		sub = appendVarintField(nil, 1, p.SessionID)
		sub = appendOptUint64(sub, 2, p.SenderID)
		sub = appendOptUint64(sub, 3, p.DelegatorID)
		sub = appendVarintField(sub, 4, uint64(p.MarketID))
		sub = appendVarintField(sub, 5, uint64(p.Side))
		sub = appendVarintField(sub, 6, uint64(p.FillMode))
		sub = appendBoolField(sub, 7, p.IsReduceOnly)
		sub = appendVarintField(sub, 8, p.Price)
		sub = appendVarintField(sub, 9, p.Size)
		sub = appendWideField(sub, 10, p.QuoteSize)
		sub = appendOptUint64(sub, 11, p.ClientOrderID)
	case types.CancelOrderByID:
		num = fieldCancelOrderByID
		sub = appendVarintField(nil, 1, p.SessionID)
		sub = appendOptUint64(sub, 2, p.SenderID)
		sub = appendOptUint64(sub, 3, p.DelegatorID)
		sub = appendVarintField(sub, 4, p.OrderID)
	case types.Transfer:
		num = fieldTransfer
		sub = appendVarintField(nil, 1, p.SessionID)
		sub = appendVarintField(sub, 2, p.FromAccountID)
		sub = appendOptUint64(sub, 3, p.ToAccountID)
		sub = appendVarintField(sub, 4, uint64(p.TokenID))
		sub = appendVarintField(sub, 5, p.Amount)
	default:
		return nil, errMalformed("marshal action")
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub), nil
}

// UnmarshalAction 从 protobuf wire 字节还原动作
func UnmarshalAction(b []byte) (*types.Action, error) {
	const op = "unmarshal action"
	a := &types.Action{}
	err := walkFields(op, b, func(num protowire.Number, typ protowire.Type, fb []byte) (int, error) {
		switch {
		case num == fieldTimestamp && typ == protowire.VarintType:
			v, n, err := consumeVarint(op, fb)
			if err != nil {
				return 0, err
			}
			a.Timestamp = v
			return n, nil
		case num == fieldNonce && typ == protowire.VarintType:
			v, n, err := consumeVarint(op, fb)
			if err != nil {
				return 0, err
			}
			a.Nonce = uint32(v)
			return n, nil
		case num >= fieldCreateSession && num <= fieldTransfer && typ == protowire.BytesType:
			sub, n, err := consumeBytes(op, fb)
			if err != nil {
				return 0, err
			}
			payload, err := unmarshalActionPayload(num, sub)
			if err != nil {
				return 0, err
			}
			a.Payload = payload
			return n, nil
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	if a.Payload == nil {
		return nil, errMalformed(op)
	}
	return a, nil
}

func unmarshalActionPayload(num protowire.Number, sub []byte) (types.ActionPayload, error) {
	const op = "unmarshal action"
	switch num {
	case fieldCreateSession:
		var p types.CreateSession
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			switch {
			case fnum == 1 && typ == protowire.BytesType:
				v, n, err := consumeBytes(op, fb)
				if err != nil {
					return 0, err
				}
				p.UserPubkey = append([]byte(nil), v...)
				return n, nil
			case fnum == 2 && typ == protowire.BytesType:
				v, n, err := consumeBytes(op, fb)
				if err != nil {
					return 0, err
				}
				p.SessionPubkey = append([]byte(nil), v...)
				return n, nil
			case fnum == 3 && typ == protowire.VarintType:
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				p.ExpiryTimestamp = v
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldRevokeSession:
		var p types.RevokeSession
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

	case fieldWithdraw:
		var p types.Withdraw
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
				p.SessionID = v
			case 2:
				p.TokenID = uint32(v)
			case 3:
				p.Amount = v
			default:
				return 0, nil
			}
			return n, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldPlaceOrder:
		var p types.PlaceOrder
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			switch {
			case fnum == 2 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.SenderID = v
				return n, nil
			case fnum == 3 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.DelegatorID = v
				return n, nil
			case fnum == 10 && typ == protowire.BytesType:
				w, n, err := consumeWide(op, fb)
				if err != nil {
					return 0, err
				}
				p.QuoteSize = w
				return n, nil
			case fnum == 11 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.ClientOrderID = v
				return n, nil
			case typ == protowire.VarintType:
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				switch fnum {
				case 1:
					p.SessionID = v
				case 4:
					p.MarketID = uint32(v)
				case 5:
					p.Side = types.Side(v)
				case 6:
					p.FillMode = types.FillMode(v)
				case 7:
					p.IsReduceOnly = v != 0
				case 8:
					p.Price = v
				case 9:
					p.Size = v
				default:
					return 0, nil
				}
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		if !p.Side.Valid() || !p.FillMode.Valid() {
			return nil, errMalformed(op)
		}
		return p, nil

	case fieldCancelOrderByID:
		var p types.CancelOrderByID
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			switch {
			case fnum == 2 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.SenderID = v
				return n, nil
			case fnum == 3 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.DelegatorID = v
				return n, nil
			case typ == protowire.VarintType:
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				switch fnum {
				case 1:
					p.SessionID = v
				case 4:
					p.OrderID = v
				default:
					return 0, nil
				}
				return n, nil
			}
			return 0, nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case fieldTransfer:
		var p types.Transfer
		err := walkFields(op, sub, func(fnum protowire.Number, typ protowire.Type, fb []byte) (int, error) {
			switch {
			case fnum == 3 && typ == protowire.BytesType:
				v, n, err := consumeOptUint64(op, fb)
				if err != nil {
					return 0, err
				}
				p.ToAccountID = v
				return n, nil
			case typ == protowire.VarintType:
				v, n, err := consumeVarint(op, fb)
				if err != nil {
					return 0, err
				}
				switch fnum {
				case 1:
					p.SessionID = v
				case 2:
					p.FromAccountID = v
				case 4:
					p.TokenID = uint32(v)
				case 5:
					p.Amount = v
				default:
					return 0, nil
				}
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
