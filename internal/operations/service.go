package operations

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/logger"
	"github.com/waremaphq/waremap-backend/pkg/metrics"
)

// DispatchInput describes one stock operation launched from a map cell.
type DispatchInput struct {
	Kind           enums.OperationKind `json:"kind" validate:"required"`
	QuantID        uuid.UUID           `json:"quant_id" validate:"required"`
	DestLocationID *uuid.UUID          `json:"dest_location_id,omitempty"`
	LotID          *uuid.UUID          `json:"lot_id,omitempty"`
	Quantity       *decimal.Decimal    `json:"quantity,omitempty"`
}

// DispatchResult references the transfer document the dispatcher produced.
type DispatchResult struct {
	PickingID      uuid.UUID          `json:"picking_id"`
	PickingName    string             `json:"picking_name"`
	State          enums.PickingState `json:"state"`
	SrcLocationID  uuid.UUID          `json:"src_location_id"`
	DestLocationID uuid.UUID          `json:"dest_location_id"`
	MoveID         uuid.UUID          `json:"move_id"`
	MoveLineID     *uuid.UUID         `json:"move_line_id,omitempty"`
}

// Service turns map-cell gestures into confirmed transfer documents.
type Service interface {
	Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	DB      *gorm.DB
	Logger  *logger.Logger
	Metrics *metrics.OperationMetrics
}

type service struct {
	db      *gorm.DB
	logg    *logger.Logger
	metrics *metrics.OperationMetrics
}

// NewService constructs the operation dispatcher.
func NewService(params ServiceParams) Service {
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "operations", Output: io.Discard})
	}
	return &service{db: params.DB, logg: logg, metrics: params.Metrics}
}

// Dispatch builds, confirms and reserves one picking for the requested
// operation. Everything runs in a single transaction.
func (s *service) Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if !input.Kind.IsValid() {
		return nil, errors.New(errors.CodeValidation, "unknown operation kind")
	}

	started := time.Now()
	var result *DispatchResult
	var warehouseID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := stock.NewRepository(tx)

		quant, err := r.FindQuant(ctx, input.QuantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "quant not found")
			}
			return err
		}
		srcLocation, err := r.FindLocation(ctx, quant.LocationID)
		if err != nil {
			return err
		}
		warehouse, err := r.WarehouseForLocation(ctx, quant.LocationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeDependency, "no warehouse owns the source location")
			}
			return err
		}
		warehouseID = warehouse.ID.String()

		quantity := quant.AvailableQuantity()
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		if !quantity.IsPositive() {
			return errors.New(errors.CodeValidation, "quantity must be positive")
		}

		route, err := s.resolveRoute(ctx, r, input, warehouse, srcLocation)
		if err != nil {
			return err
		}

		built, err := s.buildPicking(ctx, r, quant, srcLocation, route, input.LotID, quantity)
		if err != nil {
			return err
		}
		result = built
		return nil
	})
	s.observe(string(input.Kind), time.Since(started), err)
	if err != nil {
		return nil, err
	}
	logCtx := s.logg.WithOperation(ctx, string(input.Kind))
	logCtx = s.logg.WithWarehouseID(logCtx, warehouseID)
	s.logg.Info(logCtx, "stock operation dispatched")
	return result, nil
}

// route is the resolved picking type plus concrete destination.
type route struct {
	pickingType *models.PickingType
	destID      uuid.UUID
}

func (s *service) resolveRoute(ctx context.Context, r *stock.Repository, input DispatchInput, warehouse *models.Warehouse, src *models.Location) (*route, error) {
	switch input.Kind {
	case enums.OperationPick:
		pt, err := r.PickingTypeByCode(ctx, warehouse.ID, enums.PickingTypeOutgoing)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeDependency, "warehouse has no outgoing picking type")
			}
			return nil, err
		}
		if pt.DefaultDestLocationID == nil {
			return nil, errors.New(errors.CodeDependency, "outgoing picking type has no default destination")
		}
		return &route{pickingType: pt, destID: *pt.DefaultDestLocationID}, nil

	case enums.OperationMove:
		if input.DestLocationID == nil {
			return nil, errors.New(errors.CodeValidation, "dest_location_id is required for a move")
		}
		if _, err := r.FindLocation(ctx, *input.DestLocationID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeNotFound, "destination location not found")
			}
			return nil, err
		}
		pt, err := r.PickingTypeByCode(ctx, warehouse.ID, enums.PickingTypeInternal)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeDependency, "warehouse has no internal picking type")
			}
			return nil, err
		}
		return &route{pickingType: pt, destID: *input.DestLocationID}, nil

	case enums.OperationTransfer:
		if input.DestLocationID == nil {
			return nil, errors.New(errors.CodeValidation, "dest_location_id is required for a transfer")
		}
		destWarehouse, err := r.WarehouseByStockLocation(ctx, *input.DestLocationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeValidation, "transfer destination must be a warehouse stock location")
			}
			return nil, err
		}
		if destWarehouse.ID == warehouse.ID {
			return nil, errors.New(errors.CodeValidation, "transfer destination must be another warehouse")
		}
		pt, err := r.PickingTypeByRoute(ctx, enums.PickingTypeInternal, src.ID, destWarehouse.StockLocationID)
		if err == gorm.ErrRecordNotFound {
			pt, err = s.synthesizeTransferType(ctx, r, warehouse, destWarehouse, src)
		}
		if err != nil {
			return nil, err
		}
		return &route{pickingType: pt, destID: destWarehouse.StockLocationID}, nil
	}
	return nil, errors.New(errors.CodeValidation, "unknown operation kind")
}

// synthesizeTransferType creates the missing internal type for a
// cross-warehouse route on demand.
func (s *service) synthesizeTransferType(ctx context.Context, r *stock.Repository, from, to *models.Warehouse, src *models.Location) (*models.PickingType, error) {
	srcID := src.ID
	destID := to.StockLocationID
	pt := &models.PickingType{
		WarehouseID:           from.ID,
		Name:                  fmt.Sprintf("%s: Transfer to %s", from.Code, to.Code),
		Code:                  enums.PickingTypeInternal,
		DefaultSrcLocationID:  &srcID,
		DefaultDestLocationID: &destID,
		Sequence:              100,
	}
	if err := r.CreatePickingType(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *service) buildPicking(ctx context.Context, r *stock.Repository, quant *models.Quant, src *models.Location, rt *route, lotID *uuid.UUID, quantity decimal.Decimal) (*DispatchResult, error) {
	product, err := r.FindProduct(ctx, quant.ProductID)
	if err != nil {
		return nil, err
	}
	if lotID == nil {
		lotID = quant.LotID
	}
	if lotID != nil {
		lot, err := r.FindLot(ctx, *lotID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeNotFound, "lot not found")
			}
			return nil, err
		}
		if lot.ProductID != product.ID {
			return nil, errors.New(errors.CodeValidation, "lot does not belong to the quant's product")
		}
	}

	picking := &models.Picking{
		Name:           pickingName(rt.pickingType),
		PickingTypeID:  rt.pickingType.ID,
		SrcLocationID:  src.ID,
		DestLocationID: rt.destID,
		Origin:         fmt.Sprintf("PICK - %s", src.Name),
		State:          enums.PickingStateDraft,
	}
	if err := r.CreatePicking(ctx, picking); err != nil {
		return nil, err
	}

	move := &models.StockMove{
		PickingID:      &picking.ID,
		ProductID:      product.ID,
		Description:    product.DisplayName(),
		Quantity:       quantity,
		UoMID:          product.UoMID,
		SrcLocationID:  src.ID,
		DestLocationID: rt.destID,
		State:          enums.MoveStateDraft,
	}
	if err := r.CreateMove(ctx, move); err != nil {
		return nil, err
	}

	var lineID *uuid.UUID
	if lotID != nil {
		line := &models.MoveLine{
			MoveID:         move.ID,
			PickingID:      &picking.ID,
			ProductID:      product.ID,
			LotID:          lotID,
			Quantity:       quantity,
			UoMID:          product.UoMID,
			SrcLocationID:  src.ID,
			DestLocationID: rt.destID,
			State:          enums.MoveStateDraft,
		}
		if err := r.CreateMoveLine(ctx, line); err != nil {
			return nil, err
		}
		lineID = &line.ID
	}

	loaded, err := r.FindPicking(ctx, picking.ID)
	if err != nil {
		return nil, err
	}
	if err := stock.Confirm(ctx, r, loaded); err != nil {
		return nil, err
	}
	if err := stock.Assign(ctx, r, loaded); err != nil {
		return nil, err
	}

	return &DispatchResult{
		PickingID:      picking.ID,
		PickingName:    picking.Name,
		State:          loaded.State,
		SrcLocationID:  picking.SrcLocationID,
		DestLocationID: picking.DestLocationID,
		MoveID:         move.ID,
		MoveLineID:     lineID,
	}, nil
}

// pickingName derives a readable document reference from the picking type.
func pickingName(pt *models.PickingType) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s/%s", pt.Name, suffix)
}

func (s *service) observe(kind string, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(kind, elapsed)
	if err != nil {
		s.metrics.IncFailure(kind)
		return
	}
	s.metrics.IncSuccess(kind)
}
