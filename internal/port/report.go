package port

import (
	"context"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// ReportBuilder is the entry point the presentation layer calls.
type ReportBuilder interface {
	BuildReport(ctx context.Context) (*domain.Report, error)
}
