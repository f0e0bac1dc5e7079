// Package wire 实现动作/回执的二进制编码：protobuf wire 格式的
// 消息序列化，外加 varint 长度前缀封帧。
package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/betbot/goperp/perp/types"
)

// MaxPayloadSize 单条消息载荷上限（100 KB）。任一方向超限都是协议错误。
const MaxPayloadSize = 100 * 1024

// EncodeFrame 在载荷前加 varint 长度前缀（little-endian base-128，
// 与 protobuf 约定一致）。
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, &types.ProtocolError{Op: "encode", Reason: types.ReasonOversize}
	}
	buf := protowire.AppendVarint(make([]byte, 0, len(payload)+5), uint64(len(payload)))
	return append(buf, payload...), nil
}

// DecodeFrame 读取 varint 长度前缀并切出载荷。
// 声明长度超过上限 → oversize；声明长度超过剩余字节 → truncated。
// 载荷之后的尾部字节不做校验（按帧传输的流每个缓冲只携带一条消息，
// 尾部可能跟随签名等附加数据）。
func DecodeFrame(buf []byte) ([]byte, error) {
	length, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return nil, &types.ProtocolError{Op: "decode", Reason: types.ReasonTruncated}
	}
	if length > MaxPayloadSize {
		return nil, &types.ProtocolError{Op: "decode", Reason: types.ReasonOversize}
	}
	rest := buf[n:]
	if uint64(len(rest)) < length {
		return nil, &types.ProtocolError{Op: "decode", Reason: types.ReasonTruncated}
	}
	return rest[:length:length], nil
}

// EncodeAction 序列化并封帧一个动作
func EncodeAction(a *types.Action) ([]byte, error) {
	payload, err := MarshalAction(a)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(payload)
}

// DecodeAction 解帧并反序列化一个动作
func DecodeAction(buf []byte) (*types.Action, error) {
	payload, err := DecodeFrame(buf)
	if err != nil {
		return nil, err
	}
	return UnmarshalAction(payload)
}

// EncodeReceipt 序列化并封帧一个回执
func EncodeReceipt(r *types.Receipt) ([]byte, error) {
	payload, err := MarshalReceipt(r)
	if err != nil {
		return nil, err
	}
	return EncodeFrame(payload)
}

// DecodeReceipt 解帧并反序列化一个回执
func DecodeReceipt(buf []byte) (*types.Receipt, error) {
	payload, err := DecodeFrame(buf)
	if err != nil {
		return nil, err
	}
	return UnmarshalReceipt(payload)
}
