package service

import (
	"context"
	"fmt"

	"orgmanager/internal/apperr"
	"orgmanager/internal/repository"
	"orgmanager/internal/telemetry"
	"orgmanager/pkg/timer"
	"orgmanager/pkg/util"

	"go.uber.org/zap"
)

// MigrateService copies tenant data between collections, typically after an
// organization was renamed and its collection name re-derived.
type MigrateService struct {
	collections repository.ICollectionRepository
	log         *zap.Logger
}

// NewMigrateService creates a new migrate service
func NewMigrateService(collections repository.ICollectionRepository, log *zap.Logger) *MigrateService {
	return &MigrateService{collections: collections, log: log}
}

// CopyCollection copies every document of from into to and returns how many
// were written. The copy is best effort: there is no rollback, and the source
// collection is never modified or dropped.
func (s *MigrateService) CopyCollection(ctx context.Context, from, to string) (copied int64, err error) {
	const op = "migrate.CopyCollection"
	defer func() { telemetry.RecordDirectoryOp(op, err) }()

	for _, name := range []string{from, to} {
		if err := util.ValidateCollectionName(name); err != nil {
			return 0, apperr.Invalid(op, err.Error())
		}
	}
	if from == to {
		return 0, apperr.Invalid(op, "source and target collections are the same")
	}

	sw := timer.NewStopwatch(s.log)
	exists, err := s.collections.Exists(ctx, from)
	if err != nil {
		return 0, apperr.Internal(op, err)
	}
	if !exists {
		return 0, apperr.NotFound(op, fmt.Sprintf("Collection '%s' not found", from))
	}
	sw.Lap("lookup")

	copied, err = s.collections.Copy(ctx, from, to)
	telemetry.TenantDocumentsCopiedTotal.Add(float64(copied))
	sw.Lap("copy")
	if err != nil {
		s.log.Error("collection copy incomplete",
			zap.String("from", from),
			zap.String("to", to),
			zap.Int64("copied", copied),
			zap.Error(err))
		return copied, apperr.Internal(op, err)
	}

	s.log.Info("collection copied",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("copied", copied),
		zap.Duration("took", sw.Total()))
	return copied, nil
}
