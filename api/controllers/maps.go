package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/api/responses"
	"github.com/waremaphq/waremap-backend/api/validators"
	"github.com/waremaphq/waremap-backend/internal/warehousemap"
	pkgerrors "github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

// ListMaps returns map summaries; ?active=true hides archived maps.
func ListMaps(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly, err := validators.ParseQueryBool(r, "active", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summaries, err := svc.ListMaps(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

func CreateMap(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload warehousemap.CreateMapInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateMap(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func GetMap(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wm, err := svc.GetMap(r.Context(), mapID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wm)
	}
}

func UpdateMap(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload warehousemap.UpdateMapInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateMap(r.Context(), mapID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteMap(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMap(r.Context(), mapID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MapSnapshot serves the full renderable view of one map.
func MapSnapshot(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot, err := svc.Snapshot(r.Context(), mapID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func BlockCell(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload warehousemap.BlockInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cell, err := svc.Block(r.Context(), mapID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cell)
	}
}

func UnblockCell(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload warehousemap.UnblockInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Unblock(r.Context(), mapID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unblocked"})
	}
}

// PlaceQuant puts stock on a cell, in assign or create mode.
func PlaceQuant(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapID, err := pathUUID(r, "mapID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload warehousemap.PlaceInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quant, err := svc.Place(r.Context(), mapID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quant)
	}
}

// ClearQuant hides a quant from its map, freeing the cell.
func ClearQuant(svc warehousemap.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quantID, err := pathUUID(r, "quantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quant, err := svc.ClearPlacement(r.Context(), quantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quant)
	}
}
