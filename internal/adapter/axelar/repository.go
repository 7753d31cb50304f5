package axelar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	dto "swapbridge/internal/adapter/axelar/dto"
	"swapbridge/internal/adapter/upstream"
	"swapbridge/internal/config"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/pkg/apperrors"
	"swapbridge/internal/pkg/ratelimit"

	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.FeeRepository = (*Repository)(nil)

const serviceName = "axelar"

// Repository implements FeeRepository against the public Axelar APIs.
type Repository struct {
	client    *upstream.Client
	assetsURL string
	lcdURL    string
	gmpURL    string
	logger    *zap.Logger
}

// NewRepository creates a new Axelar fee repository.
func NewRepository(cfg config.AxelarConfig, logger *zap.Logger) *Repository {
	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateBurst, serviceName)
	return &Repository{
		client:    upstream.NewClient(serviceName, cfg.Timeout, limiter, logger),
		assetsURL: cfg.AssetsURL,
		lcdURL:    strings.TrimRight(cfg.LCDURL, "/"),
		gmpURL:    strings.TrimRight(cfg.GMPURL, "/"),
		logger:    logger.Named("AxelarStorage"),
	}
}

// DenomFromSymbol looks the symbol up in the Axelar asset list, preferring the
// chain-specific symbol when the asset is deployed on chain.
func (r *Repository) DenomFromSymbol(ctx context.Context, symbol, chain string) (string, error) {
	var assets []dto.AssetRaw
	if err := r.client.GetJSON(ctx, r.assetsURL, &assets); err != nil {
		return "", err
	}

	chain = strings.ToLower(chain)
	for _, a := range assets {
		if addr, ok := a.Addresses[chain]; ok && strings.EqualFold(addr.Symbol, symbol) {
			return a.Denom, nil
		}
	}
	for _, a := range assets {
		if strings.EqualFold(a.Symbol, symbol) {
			return a.Denom, nil
		}
	}

	r.logger.Debug("Symbol not found in Axelar asset list",
		zap.String("symbol", symbol), zap.String("chain", chain), zap.Int("assets", len(assets)),
	)
	return "", fmt.Errorf("%w: no axelar denom for %s on %s", apperrors.ErrNotFound, symbol, chain)
}

// TransferFee queries the nexus module for the transfer fee of amount units of denom.
func (r *Repository) TransferFee(
	ctx context.Context,
	source, destination, denom string,
	amount int64,
) (entity.TransferFee, error) {
	q := url.Values{}
	q.Set("source_chain", source)
	q.Set("destination_chain", destination)
	q.Set("amount", strconv.FormatInt(amount, 10)+denom)
	endpoint := r.lcdURL + "/axelar/nexus/v1beta1/transfer_fee?" + q.Encode()

	var resp dto.TransferFeeResponseRaw
	if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return entity.TransferFee{}, err
	}
	if resp.Fee.Amount == "" {
		return entity.TransferFee{}, fmt.Errorf("%w: axelar transfer fee response has no amount",
			apperrors.ErrExternalServiceFailure,
		)
	}
	return entity.TransferFee{Denom: resp.Fee.Denom, Amount: resp.Fee.Amount}, nil
}

// EstimateGasFee asks the GMP API for the relaying gas fee. The API answers
// either with a bare amount or with a detailed breakdown.
func (r *Repository) EstimateGasFee(ctx context.Context, req domainRepo.GasFeeRequest) (domainRepo.GasFeeResult, error) {
	body := dto.EstimateGasFeeRequestRaw{
		Method:                     "estimateGasFee",
		SourceChain:                req.SourceChain,
		DestinationChain:           req.DestinationChain,
		GasLimit:                   req.GasLimit,
		GasMultiplier:              req.GasMultiplier,
		MinGasPrice:                req.MinGasPrice,
		SourceTokenSymbol:          req.TokenSymbol,
		ShowDetailedFees:           req.ShowDetailedFees,
		SourceContractAddress:      req.SourceContractAddress,
		DestinationContractAddress: req.DestinationContractAddress,
	}

	var raw json.RawMessage
	if err := r.client.PostJSON(ctx, r.gmpURL, body, &raw); err != nil {
		return domainRepo.GasFeeResult{}, err
	}
	return parseGasFee(raw)
}

func parseGasFee(raw json.RawMessage) (domainRepo.GasFeeResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return domainRepo.GasFeeResult{}, fmt.Errorf("%w: empty gas fee response", apperrors.ErrExternalServiceFailure)
	}

	switch trimmed[0] {
	case '"':
		var total string
		if err := json.Unmarshal(trimmed, &total); err != nil {
			return domainRepo.GasFeeResult{}, fmt.Errorf("%w: invalid gas fee string: %v",
				apperrors.ErrExternalServiceFailure, err,
			)
		}
		return simpleResult(total)
	case '{':
		var d dto.GasFeeDetailRaw
		if err := json.Unmarshal(trimmed, &d); err != nil {
			return domainRepo.GasFeeResult{}, fmt.Errorf("%w: invalid gas fee object: %v",
				apperrors.ErrExternalServiceFailure, err,
			)
		}
		if d.Error != nil && d.Error.Message != "" {
			msg := d.Error.Message
			if d.Message != "" {
				msg = d.Message
			}
			return domainRepo.GasFeeResult{}, fmt.Errorf("%w: axelar gas estimate failed: %s",
				apperrors.ErrExternalServiceFailure, msg,
			)
		}
		if d.BaseFee == "" || d.ExecutionFeeWithMultiplier == "" {
			return domainRepo.GasFeeResult{}, fmt.Errorf("%w: gas fee breakdown is incomplete",
				apperrors.ErrExternalServiceFailure,
			)
		}
		multiplier, _ := d.GasMultiplier.Float64()
		return domainRepo.GasFeeResult{
			Detailed: &entity.GasFeeEstimate{
				BaseFee:                      d.BaseFee.String(),
				ExecutionFee:                 d.ExecutionFee.String(),
				ExecutionFeeWithMultiplier:   d.ExecutionFeeWithMultiplier.String(),
				L1ExecutionFeeWithMultiplier: d.L1ExecutionFeeWithMultiplier.String(),
				GasMultiplier:                multiplier,
			},
		}, nil
	default:
		return simpleResult(string(trimmed))
	}
}

func simpleResult(total string) (domainRepo.GasFeeResult, error) {
	total = strings.TrimSpace(total)
	if _, ok := new(big.Int).SetString(total, 10); !ok {
		return domainRepo.GasFeeResult{}, fmt.Errorf("%w: gas fee %q is not an integer amount",
			apperrors.ErrExternalServiceFailure, total,
		)
	}
	return domainRepo.GasFeeResult{Total: total}, nil
}
