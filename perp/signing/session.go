package signing

import (
	"crypto/ed25519"
	"fmt"
)

// SessionSigner 会话签名能力。直接对消息字节签名（无哈希间接层），
// 返回 64 字节 Ed25519 签名。
type SessionSigner interface {
	Sign(message []byte) ([]byte, error)
}

// Ed25519SessionSigner 基于本地 Ed25519 私钥的会话签名器
type Ed25519SessionSigner struct {
	priv ed25519.PrivateKey
}

// NewSessionSigner 从 Ed25519 私钥构造会话签名器
func NewSessionSigner(priv ed25519.PrivateKey) (*Ed25519SessionSigner, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("会话私钥长度异常: %d", len(priv))
	}
	return &Ed25519SessionSigner{priv: priv}, nil
}

// NewSessionSignerFromSeed 从 32 字节种子构造会话签名器
func NewSessionSignerFromSeed(seed []byte) (*Ed25519SessionSigner, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("会话种子长度异常: %d（要求 %d）", len(seed), ed25519.SeedSize)
	}
	return &Ed25519SessionSigner{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign 对消息签名
func (s *Ed25519SessionSigner) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, message), nil
}

// Pubkey 返回 32 字节会话公钥（CreateSession 用）
func (s *Ed25519SessionSigner) Pubkey() []byte {
	return []byte(s.priv.Public().(ed25519.PublicKey))
}

// AuthenticateSession 会话级认证：认证消息为 encoded ‖ signature。
func AuthenticateSession(encoded []byte, signer SessionSigner) ([]byte, error) {
	sig, err := signer.Sign(encoded)
	if err != nil {
		return nil, fmt.Errorf("会话签名失败: %w", err)
	}
	out := make([]byte, 0, len(encoded)+len(sig))
	out = append(out, encoded...)
	out = append(out, sig...)
	return out, nil
}
