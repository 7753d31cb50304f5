package application

import (
	domainRepo "swapbridge/internal/domain/repository"
	domainService "swapbridge/internal/domain/service"
)

// RouteTables is the static data the quoting services consult.
type RouteTables interface {
	domainRepo.ChainRegistry
	domainService.TimingTable
	domainService.FeeTable

	// AxelarName maps a chain identifier to its name on the Axelar network.
	AxelarName(chain string) string

	// Denom is the fallback Axelar denom for a token symbol.
	Denom(symbol string) string
}
