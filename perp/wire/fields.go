package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/betbot/goperp/perp/types"
)

// 低层字段编解码辅助。可选的 uint64 字段用嵌套子消息 {1: value}
// 承载，使零值也能区分出现/缺省；128 位整数用 {1: lo, 2: hi} 承载。

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendOptUint64(b []byte, num protowire.Number, v *uint64) []byte {
	if v == nil {
		return b
	}
	sub := appendVarintField(nil, 1, *v)
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func appendWideField(b []byte, num protowire.Number, w types.WideUint) []byte {
	if w.Lo == 0 && w.Hi == 0 {
		return b
	}
	sub := appendVarintField(nil, 1, w.Lo)
	sub = appendVarintField(sub, 2, w.Hi)
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func errMalformed(op string) error {
	return &types.ProtocolError{Op: op, Reason: types.ReasonMalformed}
}

// fieldHandler 处理一个已定位的字段；返回消费的字节数
type fieldHandler func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walkFields 遍历一条消息的所有字段，未被 handler 消费的字段按
// wire 类型跳过（前向兼容：忽略未知字段）。
func walkFields(op string, b []byte, handler fieldHandler) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errMalformed(op)
		}
		b = b[n:]
		consumed, err := handler(num, typ, b)
		if err != nil {
			return err
		}
		if consumed == 0 {
			consumed = protowire.ConsumeFieldValue(num, typ, b)
			if consumed < 0 {
				return errMalformed(op)
			}
		}
		b = b[consumed:]
	}
	return nil
}

func consumeVarint(op string, b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, errMalformed(op)
	}
	return v, n, nil
}

func consumeBytes(op string, b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, errMalformed(op)
	}
	return v, n, nil
}

func consumeOptUint64(op string, b []byte) (*uint64, int, error) {
	sub, n, err := consumeBytes(op, b)
	if err != nil {
		return nil, 0, err
	}
	var v uint64
	err = walkFields(op, sub, func(num protowire.Number, typ protowire.Type, fb []byte) (int, error) {
		if num == 1 && typ == protowire.VarintType {
			val, fn, ferr := consumeVarint(op, fb)
			if ferr != nil {
				return 0, ferr
			}
			v = val
			return fn, nil
		}
		return 0, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &v, n, nil
}

func consumeWide(op string, b []byte) (types.WideUint, int, error) {
	sub, n, err := consumeBytes(op, b)
	if err != nil {
		return types.WideUint{}, 0, err
	}
	var w types.WideUint
	err = walkFields(op, sub, func(num protowire.Number, typ protowire.Type, fb []byte) (int, error) {
		if typ != protowire.VarintType {
			return 0, nil
		}
		val, fn, ferr := consumeVarint(op, fb)
		if ferr != nil {
			return 0, ferr
		}
		switch num {
		case 1:
			w.Lo = val
		case 2:
			w.Hi = val
		default:
			return 0, nil
		}
		return fn, nil
	})
	if err != nil {
		return types.WideUint{}, 0, err
	}
	return w, n, nil
}
