// Package storage reads portfolio snapshots exported to JSON files.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"option_book/internal/market"
	"option_book/internal/models"

	"github.com/rs/zerolog/log"
)

// SnapshotVersion is the current schema of snapshot files.
const SnapshotVersion = "1.1"

// Snapshot is the content of a snapshot file.
type Snapshot struct {
	Version   string            `json:"version"`
	TakenAt   string            `json:"taken_at,omitempty"` // informational, RFC 3339
	Account   string            `json:"account,omitempty"`
	Positions []models.Position `json:"positions"`
}

// SnapshotFile serves a snapshot file as a portfolio. The file is read on every fetch
// and never written.
type SnapshotFile struct {
	Path string
}

var _ market.PortfolioProvider = SnapshotFile{}

// FetchPortfolio reads the positions of the snapshot.
func (f SnapshotFile) FetchPortfolio(ctx context.Context) ([]models.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := LoadSnapshot(f.Path)
	if err != nil {
		return nil, err
	}
	return s.Positions, nil
}

// LoadSnapshot reads and migrates a snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	s, err := DecodeSnapshot(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return s, nil
}

// DecodeSnapshot decodes a snapshot and upgrades it to SnapshotVersion.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, err
	}
	if s.Version > SnapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %s is newer than supported %s", s.Version, SnapshotVersion)
	}
	if migrateSnapshot(&s) {
		log.Info().Str("version", s.Version).Msg("snapshot migrated in memory")
	}
	if err := validate(s.Positions); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// migrateSnapshot upgrades older schemas. Returns true if anything changed.
func migrateSnapshot(s *Snapshot) bool {
	updated := false

	// 1.0 -> 1.1: expiries were exported as ISO dates and the security type was implied
	// by the presence of a right.
	if s.Version < "1.1" {
		for i := range s.Positions {
			p := &s.Positions[i]
			if len(p.Expiry) == len(models.DateFormat) && strings.Count(p.Expiry, "-") == 2 {
				p.Expiry = strings.ReplaceAll(p.Expiry, "-", "")
			}
			if p.SecType == "" {
				p.SecType = models.Stock
				if p.Right != models.NoRight {
					p.SecType = models.Option
				}
			}
		}
		s.Version = "1.1"
		updated = true
	}

	return updated
}

// validate rejects records the brokers never produce. Expiry formats are left to the
// table builder, which reports them with the offending ticker.
func validate(positions []models.Position) error {
	for i, p := range positions {
		if p.Ticker == "" {
			return fmt.Errorf("position %d: missing ticker", i)
		}
		if p.SecType == "" {
			return fmt.Errorf("position %d (%s): missing sec_type", i, p.Ticker)
		}
		if p.IsOption() {
			if p.Right != models.Call && p.Right != models.Put {
				return fmt.Errorf("position %d (%s): option without a valid right %q", i, p.Ticker, p.Right)
			}
		}
	}
	return nil
}
