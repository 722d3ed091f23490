package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/internal/warehousemap"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	pkgerrors "github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

type stubMapService struct {
	warehousemap.Service

	created     *warehousemap.CreateMapInput
	getErr      error
	placed      *warehousemap.PlaceInput
	placedMapID uuid.UUID
}

func (s *stubMapService) CreateMap(_ context.Context, input warehousemap.CreateMapInput) (*models.WarehouseMap, error) {
	s.created = &input
	return &models.WarehouseMap{Name: input.Name, Rows: input.Rows, Columns: input.Columns}, nil
}

func (s *stubMapService) GetMap(_ context.Context, id uuid.UUID) (*models.WarehouseMap, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.WarehouseMap{Name: "floor"}, nil
}

func (s *stubMapService) ListMaps(_ context.Context, _ bool) ([]warehousemap.MapSummary, error) {
	return []warehousemap.MapSummary{}, nil
}

func (s *stubMapService) Place(_ context.Context, mapID uuid.UUID, input warehousemap.PlaceInput) (*models.Quant, error) {
	s.placedMapID = mapID
	s.placed = &input
	return &models.Quant{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func requestWithMapID(method, target, mapID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("mapID", mapID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateMapValidatesBody(t *testing.T) {
	stub := &stubMapService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	CreateMap(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", rec.Code)
	}
	if stub.created != nil {
		t.Fatalf("service should not be called on validation failure")
	}
}

func TestCreateMapReturnsCreated(t *testing.T) {
	stub := &stubMapService{}
	payload := `{"name":"Main Floor","warehouse_id":"` + uuid.NewString() + `","location_id":"` + uuid.NewString() + `","rows":8,"columns":12}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maps", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	CreateMap(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.created == nil || stub.created.Name != "Main Floor" {
		t.Fatalf("expected service to receive decoded input, got %+v", stub.created)
	}
}

func TestGetMapRejectsMalformedID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := requestWithMapID(http.MethodGet, "/api/v1/maps/not-a-uuid", "not-a-uuid", nil)
	GetMap(&stubMapService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestGetMapMapsNotFound(t *testing.T) {
	stub := &stubMapService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "map not found")}
	id := uuid.NewString()
	rec := httptest.NewRecorder()
	req := requestWithMapID(http.MethodGet, "/api/v1/maps/"+id, id, nil)
	GetMap(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error body: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND code, got %s", payload.Error.Code)
	}
}

func TestListMapsRejectsBadActiveFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/maps?active=banana", nil)
	ListMaps(&stubMapService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad boolean, got %d", rec.Code)
	}
}

func TestPlaceQuantForwardsInput(t *testing.T) {
	stub := &stubMapService{}
	mapID := uuid.New()
	quantID := uuid.New()
	payload := `{"mode":"assign","posx":3,"posy":4,"posz":1,"quant_id":"` + quantID.String() + `"}`
	rec := httptest.NewRecorder()
	req := requestWithMapID(http.MethodPost, "/api/v1/maps/"+mapID.String()+"/place", mapID.String(), strings.NewReader(payload))
	PlaceQuant(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.placedMapID != mapID {
		t.Fatalf("expected map id %s, got %s", mapID, stub.placedMapID)
	}
	if stub.placed == nil || stub.placed.PosX != 3 || stub.placed.PosY != 4 || stub.placed.PosZ != 1 {
		t.Fatalf("expected decoded coordinates, got %+v", stub.placed)
	}
}
