// Package seed loads fixture records from YAML into any gateway.
package seed

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"taskflow/domain/gateway"
)

// Seed holds fixture records keyed by persisted field names
type Seed struct {
	Categories []gateway.Record `yaml:"categories"`
	Tasks      []gateway.Record `yaml:"tasks"`
}

// Load reads a seed file
func Load(path string) (*Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(b)
}

// Parse decodes seed YAML
func Parse(b []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &s, nil
}

// Apply writes the fixtures into each collection that is still empty.
// It returns the number of records created.
func (s *Seed) Apply(ctx context.Context, gw gateway.Gateway, log *zap.Logger) (int, error) {
	created := 0
	for _, batch := range []struct {
		collection string
		records    []gateway.Record
	}{
		{gateway.CollectionCategory, s.Categories},
		{gateway.CollectionTask, s.Tasks},
	} {
		if len(batch.records) == 0 {
			continue
		}

		existing, err := gw.FetchRecords(ctx, batch.collection, gateway.QueryParams{Fields: []string{gateway.FieldID}})
		if err != nil {
			return created, fmt.Errorf("failed to inspect %s: %w", batch.collection, err)
		}
		if !existing.Success {
			return created, fmt.Errorf("failed to inspect %s: %s", batch.collection, existing.Message)
		}
		if len(existing.Data) > 0 {
			log.Debug("Collection already populated, skipping seed",
				zap.String("collection", batch.collection),
				zap.Int("records", len(existing.Data)))
			continue
		}

		resp, err := gw.CreateRecord(ctx, batch.collection, gateway.WriteRequest{Records: batch.records})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", batch.collection, err)
		}
		if !resp.Success {
			return created, fmt.Errorf("failed to seed %s: %s", batch.collection, resp.Message)
		}
		for _, r := range resp.Results {
			if r.Success {
				created++
			}
		}
		log.Info("Seeded collection",
			zap.String("collection", batch.collection),
			zap.Int("records", len(resp.Results)))
	}
	return created, nil
}
