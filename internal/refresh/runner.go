package refresh

import (
	"context"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
)

const (
	report_runner_updated_categories = "runner.updated-categories"
	report_runner_skipped_categories = "runner.skipped-categories"
)

// Store is implemented by leaderboard.Store.
type Store interface {
	Load(ctx context.Context, filename string, baseline leaderboard.BaselineSource) (leaderboard.Dataset, error)
	Save(filename string, dataset leaderboard.Dataset) error
}

type Runner struct {
	store     Store
	baseline  leaderboard.BaselineSource
	refresher Refresher
	tel       telemetry.API
}

func NewRunner(store Store, baseline leaderboard.BaselineSource, refresher Refresher, tel telemetry.API) Runner {
	assert.NotNil(store)
	assert.NotNil(baseline)
	assert.NotNil(tel)

	return Runner{
		store:     store,
		baseline:  baseline,
		refresher: refresher,
		tel:       telemetry.NewScopedAPI("refresh", tel),
	}
}

// Run refreshes every file of `specs` one after the other: load the local
// copy (or the published baseline), refresh its categories and write it back.
//
// Category failures end up in the report. Failing to load or save a file
// stops the run, the returned report then covers the files completed so far.
func (r Runner) Run(ctx context.Context, specs []leaderboard.FileSpec) (Report, error) {
	var report Report
	for _, spec := range specs {
		dataset, err := r.store.Load(ctx, spec.Filename, r.baseline)
		if err != nil {
			return report, err
		}

		outcomes := r.refresher.RefreshCategories(ctx, dataset, spec)

		err = r.store.Save(spec.Filename, dataset)
		if err != nil {
			return report, err
		}

		file := FileReport{Filename: spec.Filename, Outcomes: outcomes}
		r.tel.ReportCount(report_runner_updated_categories, int64(file.Updated()))
		r.tel.ReportCount(report_runner_skipped_categories, int64(len(outcomes)-file.Updated()))
		report.Files = append(report.Files, file)
	}
	return report, nil
}
