// Package strategy ships the built-in trading algorithms. Each algorithm
// keeps its own per-session memory and writes its diagnostic output through
// the trader.Log it was constructed with, so every session gets a fresh
// instance via the registry factory.
package strategy

import (
	"github.com/backtide/backtide/internal/trader"
)

// Register adds every built-in algorithm to the registry.
func Register(reg *trader.Registry) error {
	factories := map[string]trader.Factory{
		"example":     newExample,
		"marketmaker": newMarketMaker,
		"taker":       newTaker,
		"mimic":       newMimic,
		"hybrid":      newHybrid,
	}
	for name, factory := range factories {
		if err := reg.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}
