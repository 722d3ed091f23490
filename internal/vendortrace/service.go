// Package vendortrace propagates vendor identity from purchase receipts onto
// lots, and from consumed lots onto production outputs. It observes the stock
// service's completion hooks and never overwrites a vendor once set.
package vendortrace

import (
	"context"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

// Service wires vendor propagation into the stock lifecycle.
type Service interface {
	Register(stockSvc stock.Service)
	OnMoveLineDone(ctx context.Context, r *stock.Repository, line *models.MoveLine) error
	OnProductionDone(ctx context.Context, r *stock.Repository, production *models.Production) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Logger *logger.Logger
}

type service struct {
	logg *logger.Logger
}

// NewService constructs the vendor propagation service.
func NewService(params ServiceParams) Service {
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "vendortrace", Output: io.Discard})
	}
	return &service{logg: logg}
}

// Register attaches the propagation observers to the stock service.
func (s *service) Register(stockSvc stock.Service) {
	stockSvc.RegisterMoveLineDone(s.OnMoveLineDone)
	stockSvc.RegisterProductionDone(s.OnProductionDone)
}

// OnMoveLineDone fills the line's lot vendor when the product opts in. The
// vendor comes from the move's purchase order, then from the parent move's
// lots, then from sibling lots already at the destination.
func (s *service) OnMoveLineDone(ctx context.Context, r *stock.Repository, line *models.MoveLine) error {
	if line.LotID == nil {
		return nil
	}
	product, err := r.FindProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if !product.TrackVendorByLot {
		return nil
	}
	lot, err := r.FindLot(ctx, *line.LotID)
	if err != nil {
		return err
	}
	if lot.VendorID != nil {
		return nil
	}
	move := line.Move
	if move == nil {
		var loaded models.StockMove
		if err := r.DB(ctx).First(&loaded, "id = ?", line.MoveID).Error; err != nil {
			return err
		}
		move = &loaded
	}

	vendorID, err := s.resolveVendor(ctx, r, move, line)
	if err != nil {
		return err
	}
	if vendorID == nil {
		return nil
	}
	wrote, err := r.SetLotVendor(ctx, lot.ID, *vendorID)
	if err != nil {
		return err
	}
	if wrote {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"lot_id":    lot.ID.String(),
			"vendor_id": vendorID.String(),
		}), "vendor propagated to lot")
	}
	return nil
}

func (s *service) resolveVendor(ctx context.Context, r *stock.Repository, move *models.StockMove, line *models.MoveLine) (*uuid.UUID, error) {
	if vendorID, err := s.vendorFromPurchase(ctx, r, move); err != nil || vendorID != nil {
		return vendorID, err
	}
	if vendorID, err := s.vendorFromOriginMove(ctx, r, move); err != nil || vendorID != nil {
		return vendorID, err
	}
	return s.vendorFromDestinationStock(ctx, r, line)
}

// vendorFromPurchase follows the receipt chain: move → purchase line →
// order → partner.
func (s *service) vendorFromPurchase(ctx context.Context, r *stock.Repository, move *models.StockMove) (*uuid.UUID, error) {
	if move.PurchaseLineID == nil {
		return nil, nil
	}
	var purchaseLine models.PurchaseOrderLine
	err := r.DB(ctx).Preload("Order").First(&purchaseLine, "id = ?", *move.PurchaseLineID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if purchaseLine.Order == nil {
		return nil, nil
	}
	partnerID := purchaseLine.Order.PartnerID
	return &partnerID, nil
}

// vendorFromOriginMove inherits the vendor recorded on the parent move's
// lots, covering chained and split moves. Lines are scanned in id order so
// the pick is deterministic.
func (s *service) vendorFromOriginMove(ctx context.Context, r *stock.Repository, move *models.StockMove) (*uuid.UUID, error) {
	if move.OriginMoveID == nil {
		return nil, nil
	}
	lines, err := r.MoveLinesForMove(ctx, *move.OriginMoveID)
	if err != nil {
		return nil, err
	}
	for _, parentLine := range lines {
		if parentLine.LotID == nil {
			continue
		}
		lot, err := r.FindLot(ctx, *parentLine.LotID)
		if err != nil {
			return nil, err
		}
		if lot.VendorID != nil {
			return lot.VendorID, nil
		}
	}
	return nil, nil
}

// vendorFromDestinationStock falls back to a sibling lot of the same product
// already stocked at the destination with a known vendor.
func (s *service) vendorFromDestinationStock(ctx context.Context, r *stock.Repository, line *models.MoveLine) (*uuid.UUID, error) {
	var quants []models.Quant
	err := r.DB(ctx).
		Joins("JOIN lots ON lots.id = quants.lot_id").
		Where("quants.product_id = ? AND quants.location_id = ?", line.ProductID, line.DestLocationID).
		Where("quants.lot_id IS NOT NULL AND quants.lot_id <> ?", *line.LotID).
		Where("lots.vendor_id IS NOT NULL").
		Preload("Lot").
		Order("quants.in_date").
		Limit(1).
		Find(&quants).Error
	if err != nil {
		return nil, err
	}
	if len(quants) == 0 || quants[0].Lot == nil {
		return nil, nil
	}
	return quants[0].Lot.VendorID, nil
}

// OnProductionDone writes the first consumed vendor onto every opting-in
// finished and byproduct lot of the order.
func (s *service) OnProductionDone(ctx context.Context, r *stock.Repository, production *models.Production) error {
	vendorID, err := s.firstConsumedVendor(ctx, r, production.ID)
	if err != nil {
		return err
	}
	if vendorID == nil {
		return nil
	}

	outputs, err := r.ProductionMoves(ctx, production.ID, enums.ProductionRoleFinished, enums.ProductionRoleByproduct)
	if err != nil {
		return err
	}
	for _, move := range outputs {
		if move.Product != nil && !move.Product.TrackVendorByLot {
			continue
		}
		lines, err := r.MoveLinesForMove(ctx, move.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.LotID == nil {
				continue
			}
			if _, err := r.SetLotVendor(ctx, *line.LotID, *vendorID); err != nil {
				return err
			}
		}
	}
	return nil
}

// firstConsumedVendor scans raw moves by id, then their lines by id, and
// returns the first vendor found on an opting-in consumed lot.
func (s *service) firstConsumedVendor(ctx context.Context, r *stock.Repository, productionID uuid.UUID) (*uuid.UUID, error) {
	raws, err := r.ProductionMoves(ctx, productionID, enums.ProductionRoleRaw)
	if err != nil {
		return nil, err
	}
	for _, move := range raws {
		if move.Product != nil && !move.Product.TrackVendorByLot {
			continue
		}
		lines, err := r.MoveLinesForMove(ctx, move.ID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if line.LotID == nil || line.State != enums.MoveStateDone {
				continue
			}
			lot, err := r.FindLot(ctx, *line.LotID)
			if err != nil {
				return nil, err
			}
			if lot.VendorID != nil {
				return lot.VendorID, nil
			}
		}
	}
	return nil, nil
}
