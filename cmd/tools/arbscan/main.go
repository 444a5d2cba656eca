// Command arbscan brute-forces conversion chains over the island currency
// table and prints the best multiplier per chain length.
//
// Chains start and end in sea shells so the multiplier is the factor applied
// to the shell balance after walking the whole chain. Lengths 3 through 6
// are scanned.
package main

import (
	"fmt"
	"strings"
)

// Currency indexes the conversion table.
type Currency int

const (
	PizzaSlice Currency = iota
	WasabiRoot
	Snowball
	SeaShell
)

var currencyNames = [...]string{"PIZZA_SLICE", "WASABI_ROOT", "SNOWBALL", "SEA_SHELL"}

func (c Currency) String() string { return currencyNames[c] }

// tradingTable[from][to] is the amount of "to" received per unit of "from".
var tradingTable = [4][4]float64{
	PizzaSlice: {PizzaSlice: 1.0, WasabiRoot: 0.5, Snowball: 1.45, SeaShell: 0.75},
	WasabiRoot: {PizzaSlice: 1.95, WasabiRoot: 1.0, Snowball: 3.1, SeaShell: 1.49},
	Snowball:   {PizzaSlice: 0.67, WasabiRoot: 0.31, Snowball: 1.0, SeaShell: 0.48},
	SeaShell:   {PizzaSlice: 1.34, WasabiRoot: 0.64, Snowball: 1.98, SeaShell: 1.0},
}

// chainMultiplier compounds the conversion rates along a chain. The second
// return is false for chains not anchored on sea shells at both ends.
func chainMultiplier(chain []Currency) (float64, bool) {
	if chain[0] != SeaShell || chain[len(chain)-1] != SeaShell {
		return 0, false
	}

	multiplier := 1.0
	for i := 0; i < len(chain)-1; i++ {
		multiplier *= tradingTable[chain[i]][chain[i+1]]
	}
	return multiplier, true
}

// bestChain scans every chain of the given length and returns the first one
// reaching the highest multiplier.
func bestChain(length int) ([]Currency, float64) {
	chain := make([]Currency, length)
	var best []Currency
	bestMultiplier := -1.0

	for {
		if multiplier, ok := chainMultiplier(chain); ok && multiplier > bestMultiplier {
			best = append([]Currency(nil), chain...)
			bestMultiplier = multiplier
		}

		// Odometer step, last position spins fastest.
		i := length - 1
		for ; i >= 0; i-- {
			chain[i]++
			if chain[i] <= SeaShell {
				break
			}
			chain[i] = PizzaSlice
		}
		if i < 0 {
			return best, bestMultiplier
		}
	}
}

func formatChain(chain []Currency) string {
	parts := make([]string, len(chain))
	for i, c := range chain {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func main() {
	for length := 3; length <= 6; length++ {
		chain, multiplier := bestChain(length)
		fmt.Printf("%s %g\n", formatChain(chain), multiplier)
	}
}
