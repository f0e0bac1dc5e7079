// Package signing 实现动作的两级认证：
// 会话生命周期动作由钱包密钥（secp256k1，可恢复签名）认证，
// 交易/资产动作由会话密钥（Ed25519）认证。
// 核心不持有私钥材料，签名能力由调用方注入。
package signing

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// WalletSigner 钱包签名能力。对 32 字节哈希签名，
// 返回可恢复签名 r(32) ‖ s(32) ‖ v(1)，共 65 字节。
type WalletSigner interface {
	SignHash(hash []byte) ([]byte, error)
}

// PrivateKeyWalletSigner 基于本地 secp256k1 私钥的钱包签名器
type PrivateKeyWalletSigner struct {
	key *ecdsa.PrivateKey
}

// NewWalletSigner 从私钥构造钱包签名器
func NewWalletSigner(key *ecdsa.PrivateKey) *PrivateKeyWalletSigner {
	return &PrivateKeyWalletSigner{key: key}
}

// NewWalletSignerFromHex 从十六进制私钥构造钱包签名器
func NewWalletSignerFromHex(hexKey string) (*PrivateKeyWalletSigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("解析钱包私钥失败: %w", err)
	}
	return &PrivateKeyWalletSigner{key: key}, nil
}

// SignHash 对哈希签名（crypto.Sign 返回 65 字节：r + s + v）
func (s *PrivateKeyWalletSigner) SignHash(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, fmt.Errorf("钱包签名失败: %w", err)
	}
	return sig, nil
}

// Pubkey 返回 33 字节压缩公钥（用户公钥，CreateSession 用）
func (s *PrivateKeyWalletSigner) Pubkey() []byte {
	return crypto.CompressPubkey(&s.key.PublicKey)
}

// Address 返回钱包地址
func (s *PrivateKeyWalletSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// AuthenticateWallet 钱包级认证：对已编码动作做 keccak256 哈希后签名，
// 去掉末尾的恢复位字节，认证消息为 encoded ‖ sig[:len-1]。
func AuthenticateWallet(encoded []byte, signer WalletSigner) ([]byte, error) {
	hash := crypto.Keccak256(encoded)
	sig, err := signer.SignHash(hash)
	if err != nil {
		return nil, err
	}
	if len(sig) < 2 {
		return nil, fmt.Errorf("钱包签名长度异常: %d", len(sig))
	}
	out := make([]byte, 0, len(encoded)+len(sig)-1)
	out = append(out, encoded...)
	out = append(out, sig[:len(sig)-1]...)
	return out, nil
}
