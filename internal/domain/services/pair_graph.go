package services

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gonzalo10/uniswap-interface/internal/domain/entities"
)

// BuildCandidates lists every unordered pair that could take part in a route
// of at most two hops between tokenIn and tokenOut. The token set is the base
// symbols found in universe plus the two end tokens, which are included even
// when the universe does not know them. Tokens sharing an address (the native
// token and its wrapped form) are one routing node.
func BuildCandidates(tokenIn, tokenOut entities.Token, baseSymbols []string, universe *entities.TokenRegistry) []entities.TokenPair {
	if tokenIn.SameAs(tokenOut) {
		return nil
	}

	nodes := make([]entities.Token, 0, len(baseSymbols)+2)
	seen := make(map[common.Address]bool, len(baseSymbols)+2)
	add := func(t entities.Token) {
		if seen[t.Address] {
			return
		}
		seen[t.Address] = true
		nodes = append(nodes, t)
	}

	add(tokenIn)
	add(tokenOut)
	if universe != nil {
		for _, sym := range baseSymbols {
			if t, ok := universe.GetBySymbol(sym); ok {
				add(t)
			}
		}
	}

	pairs := make([]entities.TokenPair, 0, len(nodes)*(len(nodes)-1)/2)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			pairs = append(pairs, entities.TokenPair{A: nodes[i], B: nodes[j]})
		}
	}
	return pairs
}
