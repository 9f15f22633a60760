package persist

import (
	"context"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

// Store is the persistence collaborator that keeps profile versions.
type Store interface {
	ListVersions(ctx context.Context, positionID int) ([]string, error)
	SaveProfile(ctx context.Context, p domain.PositionRiskProfile, idempotencyKey string) (domain.SavedProfile, error)
}
