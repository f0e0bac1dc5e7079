package types

import (
	"errors"
	"fmt"
)

// 三类错误对本次调用均为终态：不重试、不吞掉。
// ValidationError 在任何网络交互之前同步产生；
// ProtocolError 在封帧或解析 wire 字节时产生；
// ServerError 在回执显式携带错误时产生。
// 调用方用 errors.As / IsValidation 等判别，不要匹配错误文本。

// ValidationReason 参数校验失败原因
type ValidationReason string

const (
	ReasonNegative          ValidationReason = "negative"
	ReasonPrecisionLoss     ValidationReason = "precision loss"
	ReasonOutOfRange        ValidationReason = "out of range"
	ReasonInvalidKeyLength  ValidationReason = "invalid key length"
	ReasonNonPositiveAmount ValidationReason = "non-positive amount"
	ReasonInvalidFillMode   ValidationReason = "invalid fill mode"
	ReasonInvalidSide       ValidationReason = "invalid side"
	ReasonExpiryInPast      ValidationReason = "expiry in past"
	ReasonMissingReference  ValidationReason = "missing required reference"
)

// ValidationError 参数校验错误（同步产生，不会到达网络）
type ValidationError struct {
	Field  string
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("参数校验失败: %s: %s (%s)", e.Field, e.Reason, e.Detail)
	}
	return fmt.Sprintf("参数校验失败: %s: %s", e.Field, e.Reason)
}

// NewValidationError 构造校验错误
func NewValidationError(field string, reason ValidationReason) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ProtocolReason 协议错误原因
type ProtocolReason string

const (
	ReasonOversize          ProtocolReason = "oversize"
	ReasonTruncated         ProtocolReason = "truncated"
	ReasonMalformed         ProtocolReason = "malformed"
	ReasonUnexpectedReceipt ProtocolReason = "unexpected receipt kind"
)

// ProtocolError 协议错误（封帧 / 解析 wire 字节 / 回执种类不匹配）
type ProtocolError struct {
	Op     string
	Reason ProtocolReason
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("协议错误: %s: %s (%s)", e.Op, e.Reason, e.Detail)
	}
	return fmt.Sprintf("协议错误: %s: %s", e.Op, e.Reason)
}

// NewProtocolError 构造协议错误
func NewProtocolError(op string, reason ProtocolReason) *ProtocolError {
	return &ProtocolError{Op: op, Reason: reason}
}

// ServerError 服务端错误回执
type ServerError struct {
	Code    uint32
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("服务端错误 %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("服务端错误 %d", e.Code)
}

// IsValidation 是否为参数校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProtocol 是否为协议错误
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsServer 是否为服务端错误
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
