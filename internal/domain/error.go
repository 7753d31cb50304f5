package domain

import "errors"

var (
	// ErrUnknownChain means the chain identifier is not in the registry.
	ErrUnknownChain = errors.New("unknown chain")

	// ErrUnknownToken means the token symbol is not in the registry.
	ErrUnknownToken = errors.New("unknown token")

	// ErrSameChain means a bridge was requested with identical source and destination chains.
	ErrSameChain = errors.New("source and destination chains must be different")

	// ErrSameToken means a swap was requested with identical input and output tokens.
	ErrSameToken = errors.New("input and output tokens must be different")

	// ErrUnsupportedPair means no pool is known for the requested token pair.
	ErrUnsupportedPair = errors.New("unsupported token pair")

	// ErrWalletNotInstalled means no wallet provider is configured.
	ErrWalletNotInstalled = errors.New("wallet not installed")

	// ErrWalletNotConnected means an operation needs a connected account.
	ErrWalletNotConnected = errors.New("wallet not connected")

	// ErrUserRejected means the user declined the wallet request (EIP-1193 code 4001).
	ErrUserRejected = errors.New("user rejected the request")

	// ErrChainNotAdded means the wallet does not know the chain (EIP-1193 code 4902) and it could not be added.
	ErrChainNotAdded = errors.New("chain has not been added to the wallet")

	// ErrInvalidSignature means a signature could not be parsed or does not match the claimed signer.
	ErrInvalidSignature = errors.New("invalid signature")
)
