package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/sinteticoai/givemetry/core/algo"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// CalculateBatchLapseRisk scores all constituents in parallel using a worker
// pool. It spawns cfg.Workers number of goroutines and aggregates their
// results into a single slice of schema.BatchRiskItem. A failed or panicked
// item is reported on the item itself; it never aborts the batch.
func CalculateBatchLapseRisk(ctx context.Context, cfg *contract.Config, data []schema.ConstituentData) []schema.BatchRiskItem {
	// Initialize channels based on the final number of items to be processed.
	dataCh := make(chan schema.ConstituentData, len(data))
	resultCh := make(chan schema.BatchRiskItem, len(data))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for d := range dataCh {
				resultCh <- scoreConstituent(ctx, cfg, d)
			}
		})
	}

	// Send items to worker channel
	for _, d := range data {
		dataCh <- d
	}
	close(dataCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	results := make([]schema.BatchRiskItem, 0, len(data))
	for r := range resultCh {
		results = append(results, r)
	}

	return results
}

// scoreConstituent computes the lapse risk for a single constituent.
// Panics in the calculator surface as per-item errors.
func scoreConstituent(ctx context.Context, cfg *contract.Config, d schema.ConstituentData) (item schema.BatchRiskItem) {
	item = schema.BatchRiskItem{
		ConstituentID: d.Profile.ExternalID,
		DisplayName:   d.Profile.DisplayName(),
	}

	defer func() {
		if r := recover(); r != nil {
			item.Result = nil
			item.Err = fmt.Errorf("lapse risk calculation panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		item.Err = err
		return item
	}

	result := algo.CalculateLapseRisk(d.Gifts, d.Contacts, cfg.ReferenceDate, cfg.CustomRiskWeights)
	item.Result = &result
	return item
}
