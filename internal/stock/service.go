package stock

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

// MoveLineDoneHook observes a move line reaching the done state. Hooks run
// inside the completing transaction; returning an error rolls it back.
type MoveLineDoneHook func(ctx context.Context, r *Repository, line *models.MoveLine) error

// ProductionDoneHook observes a production order reaching the done state.
type ProductionDoneHook func(ctx context.Context, r *Repository, production *models.Production) error

// Service drives the transfer-document lifecycle: confirm, reserve, complete.
type Service interface {
	ConfirmPicking(ctx context.Context, pickingID uuid.UUID) (*models.Picking, error)
	AssignPicking(ctx context.Context, pickingID uuid.UUID) (*models.Picking, error)
	CompleteMoveLine(ctx context.Context, lineID uuid.UUID) (*models.MoveLine, error)
	MarkProductionDone(ctx context.Context, productionID uuid.UUID) (*models.Production, error)
	RegisterMoveLineDone(hook MoveLineDoneHook)
	RegisterProductionDone(hook ProductionDoneHook)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	db   *gorm.DB
	logg *logger.Logger
	now  func() time.Time

	moveLineHooks   []MoveLineDoneHook
	productionHooks []ProductionDoneHook
}

// NewService constructs the stock service.
func NewService(params ServiceParams) Service {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "stock", Output: io.Discard})
	}
	return &service{
		db:   params.DB,
		logg: logg,
		now:  now,
	}
}

// RegisterMoveLineDone adds an in-transaction observer of completed lines.
func (s *service) RegisterMoveLineDone(hook MoveLineDoneHook) {
	s.moveLineHooks = append(s.moveLineHooks, hook)
}

// RegisterProductionDone adds an in-transaction observer of finished
// production orders.
func (s *service) RegisterProductionDone(hook ProductionDoneHook) {
	s.productionHooks = append(s.productionHooks, hook)
}

// ConfirmPicking moves a draft picking and its moves to confirmed.
func (s *service) ConfirmPicking(ctx context.Context, pickingID uuid.UUID) (*models.Picking, error) {
	var picking *models.Picking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepository(tx)
		loaded, err := r.FindPicking(ctx, pickingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "picking not found")
			}
			return err
		}
		if err := Confirm(ctx, r, loaded); err != nil {
			return err
		}
		picking = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picking, nil
}

// AssignPicking reserves stock for the picking's lot-bound lines.
func (s *service) AssignPicking(ctx context.Context, pickingID uuid.UUID) (*models.Picking, error) {
	var picking *models.Picking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepository(tx)
		loaded, err := r.FindPicking(ctx, pickingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "picking not found")
			}
			return err
		}
		if err := Assign(ctx, r, loaded); err != nil {
			return err
		}
		picking = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picking, nil
}

// Confirm flips a draft picking (and its moves and lines) to confirmed using
// the caller's repository, so dispatchers can confirm inside their own
// transaction.
func Confirm(ctx context.Context, r *Repository, picking *models.Picking) error {
	if picking.State != enums.PickingStateDraft {
		return errors.New(errors.CodeConflict, "picking is not in draft state")
	}
	picking.State = enums.PickingStateConfirmed
	if err := r.DB(ctx).Model(&models.Picking{}).
		Where("id = ?", picking.ID).
		Update("state", enums.PickingStateConfirmed).Error; err != nil {
		return err
	}
	if err := r.DB(ctx).Model(&models.StockMove{}).
		Where("picking_id = ? AND state = ?", picking.ID, enums.MoveStateDraft).
		Update("state", enums.MoveStateConfirmed).Error; err != nil {
		return err
	}
	if err := r.DB(ctx).Model(&models.MoveLine{}).
		Where("picking_id = ? AND state = ?", picking.ID, enums.MoveStateDraft).
		Update("state", enums.MoveStateConfirmed).Error; err != nil {
		return err
	}
	for i := range picking.Moves {
		picking.Moves[i].State = enums.MoveStateConfirmed
		for j := range picking.Moves[i].Lines {
			picking.Moves[i].Lines[j].State = enums.MoveStateConfirmed
		}
	}
	return nil
}

// Assign reserves source stock for every lot-bound line of a confirmed
// picking. Reservations are recorded on the backing quants; lines with no lot
// stay unreserved and the document keeps its confirmed stage.
func Assign(ctx context.Context, r *Repository, picking *models.Picking) error {
	if picking.State != enums.PickingStateConfirmed && picking.State != enums.PickingStateAssigned {
		return errors.New(errors.CodeConflict, "picking is not in a reservable state")
	}
	for i := range picking.Moves {
		move := &picking.Moves[i]
		for j := range move.Lines {
			line := &move.Lines[j]
			if line.LotID == nil || line.State != enums.MoveStateConfirmed {
				continue
			}
			quant, err := r.QuantForReservation(ctx, line.ProductID, line.SrcLocationID, line.LotID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return err
			}
			toReserve := decimal.Min(quant.AvailableQuantity(), line.Quantity)
			if toReserve.IsPositive() {
				quant.ReservedQuantity = quant.ReservedQuantity.Add(toReserve)
				if err := r.SaveQuant(ctx, quant); err != nil {
					return err
				}
				line.State = enums.MoveStateAssigned
				if err := r.DB(ctx).Model(&models.MoveLine{}).
					Where("id = ?", line.ID).
					Update("state", enums.MoveStateAssigned).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CompleteMoveLine records physical execution of one move line: the source
// quant shrinks, the destination quant grows, states roll to done and the
// registered observers run inside the same transaction.
func (s *service) CompleteMoveLine(ctx context.Context, lineID uuid.UUID) (*models.MoveLine, error) {
	var completed *models.MoveLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepository(tx)
		line, err := r.FindMoveLine(ctx, lineID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "move line not found")
			}
			return err
		}
		if line.State == enums.MoveStateDone {
			return errors.New(errors.CodeConflict, "move line is already done")
		}
		if line.State == enums.MoveStateCancel {
			return errors.New(errors.CodeConflict, "move line is cancelled")
		}

		if err := s.applyQuantDelta(ctx, r, line); err != nil {
			return err
		}

		line.State = enums.MoveStateDone
		if err := r.DB(ctx).Model(&models.MoveLine{}).
			Where("id = ?", line.ID).
			Update("state", enums.MoveStateDone).Error; err != nil {
			return err
		}
		if err := s.rollUpStates(ctx, r, line); err != nil {
			return err
		}

		for _, hook := range s.moveLineHooks {
			if err := hook(ctx, r, line); err != nil {
				return err
			}
		}
		completed = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "move_line_id", lineID.String()), "move line completed")
	return completed, nil
}

// applyQuantDelta shifts stock from the source bucket to the destination
// bucket. Source buckets outside internal storage (supplier, production) may
// legitimately not exist yet; destinations only materialize inside internal
// storage.
func (s *service) applyQuantDelta(ctx context.Context, r *Repository, line *models.MoveLine) error {
	src, err := r.FindLocation(ctx, line.SrcLocationID)
	if err != nil {
		return err
	}
	dest, err := r.FindLocation(ctx, line.DestLocationID)
	if err != nil {
		return err
	}

	quant, err := r.QuantForReservation(ctx, line.ProductID, line.SrcLocationID, line.LotID)
	switch {
	case err == gorm.ErrRecordNotFound:
		if src.Usage == enums.LocationUsageInternal {
			return errors.New(errors.CodeConflict, "no stock available at the source location")
		}
	case err != nil:
		return err
	default:
		quant.Quantity = quant.Quantity.Sub(line.Quantity)
		released := decimal.Min(quant.ReservedQuantity, line.Quantity)
		quant.ReservedQuantity = quant.ReservedQuantity.Sub(released)
		if err := r.SaveQuant(ctx, quant); err != nil {
			return err
		}
	}

	if dest.Usage != enums.LocationUsageInternal {
		return nil
	}
	existing, err := r.QuantForReservation(ctx, line.ProductID, line.DestLocationID, line.LotID)
	switch {
	case err == gorm.ErrRecordNotFound:
		entered := s.now()
		return r.CreateQuant(ctx, &models.Quant{
			ProductID:    line.ProductID,
			LocationID:   line.DestLocationID,
			LotID:        line.LotID,
			Quantity:     line.Quantity,
			InDate:       &entered,
			DisplayOnMap: true,
		})
	case err != nil:
		return err
	default:
		existing.Quantity = existing.Quantity.Add(line.Quantity)
		return r.SaveQuant(ctx, existing)
	}
}

// rollUpStates marks the parent move done once all its lines are, and the
// picking done once all its moves are.
func (s *service) rollUpStates(ctx context.Context, r *Repository, line *models.MoveLine) error {
	var pendingLines int64
	err := r.DB(ctx).Model(&models.MoveLine{}).
		Where("move_id = ? AND state NOT IN ?", line.MoveID, []enums.MoveState{enums.MoveStateDone, enums.MoveStateCancel}).
		Count(&pendingLines).Error
	if err != nil {
		return err
	}
	if pendingLines > 0 {
		return nil
	}
	if err := r.DB(ctx).Model(&models.StockMove{}).
		Where("id = ?", line.MoveID).
		Update("state", enums.MoveStateDone).Error; err != nil {
		return err
	}
	if line.PickingID == nil {
		return nil
	}
	var pendingMoves int64
	err = r.DB(ctx).Model(&models.StockMove{}).
		Where("picking_id = ? AND state NOT IN ?", *line.PickingID, []enums.MoveState{enums.MoveStateDone, enums.MoveStateCancel}).
		Count(&pendingMoves).Error
	if err != nil {
		return err
	}
	if pendingMoves > 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.Picking{}).
		Where("id = ?", *line.PickingID).
		Update("state", enums.PickingStateDone).Error
}

// MarkProductionDone finishes a production order: every raw and output move
// rolls to done and the registered observers run inside the transaction.
func (s *service) MarkProductionDone(ctx context.Context, productionID uuid.UUID) (*models.Production, error) {
	var finished *models.Production
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepository(tx)
		production, err := r.FindProduction(ctx, productionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "production order not found")
			}
			return err
		}
		if production.State == enums.ProductionStateDone {
			return errors.New(errors.CodeConflict, "production order is already done")
		}
		if production.State == enums.ProductionStateCancel {
			return errors.New(errors.CodeConflict, "production order is cancelled")
		}

		var moveIDs []uuid.UUID
		if err := r.DB(ctx).Model(&models.StockMove{}).
			Where("production_id = ?", productionID).
			Pluck("id", &moveIDs).Error; err != nil {
			return err
		}
		if len(moveIDs) > 0 {
			if err := r.DB(ctx).Model(&models.StockMove{}).
				Where("id IN ?", moveIDs).
				Update("state", enums.MoveStateDone).Error; err != nil {
				return err
			}
			if err := r.DB(ctx).Model(&models.MoveLine{}).
				Where("move_id IN ?", moveIDs).
				Update("state", enums.MoveStateDone).Error; err != nil {
				return err
			}
		}
		production.State = enums.ProductionStateDone
		if err := r.DB(ctx).Model(&models.Production{}).
			Where("id = ?", productionID).
			Update("state", enums.ProductionStateDone).Error; err != nil {
			return err
		}

		for _, hook := range s.productionHooks {
			if err := hook(ctx, r, production); err != nil {
				return err
			}
		}
		finished = production
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "production_id", productionID.String()), "production order done")
	return finished, nil
}
