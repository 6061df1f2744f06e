package report

import "context"

// Mirror is the outbound port for report destinations.
type Mirror interface {
	// AppendReport writes one report row and returns a destination reference.
	AppendReport(ctx context.Context, userID string, r *Report) (rowRef string, err error)
}
