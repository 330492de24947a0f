package refresh

import (
	"context"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_refresher_refresh_category = "refresher.refresh-category"
)

var tracer = otel.Tracer("leaderboard-sync/refresh")

// CategorySource is implemented by *arena.Client.
type CategorySource interface {
	FetchCategory(ctx context.Context, modality, slug string, styleControl leaderboard.StyleControl) (leaderboard.Category, error)
}

// Outcome is the result of refreshing a single category. Reason is only set
// when the category was skipped.
type Outcome struct {
	Key     string
	Updated bool
	Reason  string
}

type Refresher struct {
	source CategorySource
	tel    telemetry.API
}

func NewRefresher(source CategorySource, tel telemetry.API) Refresher {
	assert.NotNil(source)
	assert.NotNil(tel)

	return Refresher{
		source: source,
		tel:    telemetry.NewScopedAPI("refresh", tel),
	}
}

// RefreshCategories refreshes every category of `spec` in order and writes
// the results into `dataset`.
//
// A category that fails keeps its previous entry in `dataset` (or stays
// absent) and is reported as skipped, it never stops the other categories.
func (r Refresher) RefreshCategories(ctx context.Context, dataset leaderboard.Dataset, spec leaderboard.FileSpec) []Outcome {
	outcomes := make([]Outcome, 0, len(spec.Categories))
	for _, mapping := range spec.Categories {
		outcomes = append(outcomes, r.refreshCategory(ctx, dataset, spec, mapping))
	}
	return outcomes
}

func (r Refresher) refreshCategory(ctx context.Context, dataset leaderboard.Dataset, spec leaderboard.FileSpec, mapping leaderboard.CategoryMapping) Outcome {
	ctx, span := tracer.Start(ctx, "refresh-category")
	defer span.End()
	span.SetAttributes(
		attribute.String("file", spec.Filename),
		attribute.String("category", mapping.Key),
		attribute.String("slug", mapping.Slug),
		attribute.String("style_control", spec.StyleControl.String()),
	)

	skip := func(err error) Outcome {
		span.RecordError(err)
		span.SetStatus(codes.Error, "category skipped")
		r.tel.ReportWarning(report_refresher_refresh_category, err, spec.Filename, mapping.Key)
		return Outcome{Key: mapping.Key, Reason: err.Error()}
	}

	category, err := r.source.FetchCategory(ctx, spec.Modality, mapping.Slug, spec.StyleControl)
	if err != nil {
		return skip(err)
	}
	err = dataset.Set(mapping.Key, category)
	if err != nil {
		return skip(err)
	}

	span.SetAttributes(attribute.Int("models", len(category)))
	r.tel.ReportDebug("category updated", spec.Filename, mapping.Key, len(category))
	return Outcome{Key: mapping.Key, Updated: true}
}
