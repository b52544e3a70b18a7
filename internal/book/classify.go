// Package book turns a flat broker position snapshot into per-underlying tables
// and the aggregates printed by the reports.
//
// Everything in this package is a pure transformation: inputs are never
// modified and no state is shared between calls.
package book

import "option_book/internal/models"

// Classify groups positions of the given security type by their underlying ticker.
//
// Groups keep the relative order of the input. Tickers are used as supplied (case preserved)
// and only tickers with at least one matching position appear in the result.
// An empty input returns an empty, non-nil map.
func Classify(positions []models.Position, secType models.SecType) map[string][]models.Position {
	groups := make(map[string][]models.Position)
	for _, p := range positions {
		if p.SecType != secType {
			continue
		}
		groups[p.Ticker] = append(groups[p.Ticker], p)
	}
	return groups
}

// ClassifyOptions is Classify with the default OPT filter.
func ClassifyOptions(positions []models.Position) map[string][]models.Position {
	return Classify(positions, models.Option)
}

// Filter returns the positions of one security type, in input order.
func Filter(positions []models.Position, secType models.SecType) []models.Position {
	var out []models.Position
	for _, p := range positions {
		if p.SecType == secType {
			out = append(out, p)
		}
	}
	return out
}
