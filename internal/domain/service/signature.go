package service

import (
	"fmt"
	"strings"

	"swapbridge/internal/domain"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// PersonalSignPayload returns the bytes a personal_sign message stands for: hex
// data when 0x-prefixed, otherwise the UTF-8 text.
func PersonalSignPayload(message string) ([]byte, error) {
	m := strings.TrimSpace(message)
	if strings.HasPrefix(m, "0x") || strings.HasPrefix(m, "0X") {
		data, err := hexutil.Decode(m)
		if err != nil {
			return nil, fmt.Errorf("invalid hex message: %w", err)
		}
		return data, nil
	}
	return []byte(message), nil
}

// RecoverPersonalSigner returns the address that produced an EIP-191 signature over message.
func RecoverPersonalSigner(message, signature string) (common.Address, error) {
	payload, err := PersonalSignPayload(message)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	sig, err := hexutil.Decode(strings.TrimSpace(signature))
	if err != nil || len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d-byte hex signature",
			domain.ErrInvalidSignature, crypto.SignatureLength,
		)
	}
	// wallets return v as 27/28, SigToPub wants 0/1
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(payload), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyPersonalSignature reports whether signature over message was made by address.
func VerifyPersonalSignature(message, signature, address string) (bool, error) {
	if !common.IsHexAddress(strings.TrimSpace(address)) {
		return false, fmt.Errorf("%w: invalid address %q", domain.ErrInvalidSignature, address)
	}
	signer, err := RecoverPersonalSigner(message, signature)
	if err != nil {
		return false, err
	}
	return signer == common.HexToAddress(strings.TrimSpace(address)), nil
}
