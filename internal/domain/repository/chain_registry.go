package repository

import "swapbridge/internal/domain/entity"

// ChainRegistry exposes the static chain and token catalog.
type ChainRegistry interface {
	Chains() []entity.Chain
	AllChains() []entity.Chain
	Chain(key string) (entity.Chain, bool)
	ChainByID(id int64) (entity.Chain, bool)
	Tokens() []entity.Token
	Token(symbol string) (entity.Token, bool)
	PoolAddress(key string) (string, bool)
}
