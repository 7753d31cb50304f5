package service

import (
	"math"
	"strings"

	"swapbridge/internal/domain/entity"
)

// TimingTable provides the per-chain figures the bridge time estimate is built from.
type TimingTable interface {
	FinalityMinutes(chain string) float64
	ExecutionMinutes(chain string) float64
	IsRollup(chain string) bool
}

const (
	axelarProcessingMinutes = 2.0
	slowFinalityThreshold   = 10.0
	rollupMinFloor          = 10
	rollupSettlementMinutes = 25.0
)

// DefaultTimeEstimate is returned when a route cannot be named at all.
var DefaultTimeEstimate = entity.TimeEstimate{Min: 15, Max: 30}

// EstimateBridgingTime returns a min/max minute range for moving funds from source to destination.
func EstimateBridgingTime(table TimingTable, source, destination string) entity.TimeEstimate {
	src := strings.ToLower(strings.TrimSpace(source))
	dst := strings.ToLower(strings.TrimSpace(destination))
	if src == "" || dst == "" {
		return DefaultTimeEstimate
	}

	finality := table.FinalityMinutes(src)
	execution := table.ExecutionMinutes(dst)

	processing := axelarProcessingMinutes
	variance := 0.2
	if finality > slowFinalityThreshold {
		processing *= 1.2
		variance = 0.3
	}

	total := finality + processing + execution
	minMinutes := int(math.Max(1, math.Floor(total*(1-variance))))
	maxMinutes := int(math.Ceil(total * (1 + variance)))

	if table.IsRollup(src) || table.IsRollup(dst) {
		minMinutes = max(rollupMinFloor, minMinutes)
		maxMinutes = max(maxMinutes, int(math.Ceil(finality+rollupSettlementMinutes)))
	}

	return entity.TimeEstimate{Min: minMinutes, Max: maxMinutes}
}
