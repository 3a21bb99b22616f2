package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/adapter/http/dto"
	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

type postingServiceStub struct {
	postFn func(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error)
	getFn  func(ctx context.Context, id string) (*domain.Entry, error)
	listFn func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
}

func (s *postingServiceStub) PostEntry(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
	return s.postFn(ctx, req)
}

func (s *postingServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *postingServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
	return s.listFn(ctx, input)
}

func TestEntryHandler_Post_Success(t *testing.T) {
	entry := &domain.Entry{
		ID:          "entry-1",
		OperationID: 7,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.RequireFromString("1500.00"),
		EntryDt:     time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
	}

	var captured domain.PostEntryRequest
	handler := NewEntryHandler(&postingServiceStub{
		postFn: func(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
			captured = req
			return entry, nil
		},
	})

	body, _ := json.Marshal(dto.PostEntryRequest{
		OperationID: 7,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.RequireFromString("1500.00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.OperationID != 7 || captured.DrAccountNo != "10.1" || captured.CrAccountNo != "60" {
		t.Fatalf("expected request to pass through, got %+v", captured)
	}
	if captured.EntryDt != nil {
		t.Fatalf("expected nil entry_dt when omitted, got %v", captured.EntryDt)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "entry-1" {
		t.Fatalf("expected entry ID entry-1, got %s", resp.ID)
	}
}

func TestEntryHandler_Post_InvalidBody(t *testing.T) {
	handler := NewEntryHandler(&postingServiceStub{
		postFn: func(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
			t.Fatal("PostEntry should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Post_OutOfOrder(t *testing.T) {
	latest := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	handler := NewEntryHandler(&postingServiceStub{
		postFn: func(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
			return nil, &domain.OutOfOrderEntryError{
				EntryDt:       latest.Add(-time.Hour),
				LatestEntryDt: latest,
			}
		},
	})

	body, _ := json.Marshal(dto.PostEntryRequest{
		OperationID: 1,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.NewFromInt(100),
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Post_SignViolation(t *testing.T) {
	handler := NewEntryHandler(&postingServiceStub{
		postFn: func(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
			return nil, &domain.SignViolationError{
				AccountNo: "51",
				Kind:      domain.KindActive,
				Side:      domain.SideCr,
				Balance:   decimal.NewFromInt(-200),
			}
		},
	})

	body, _ := json.Marshal(dto.PostEntryRequest{
		OperationID: 1,
		DrAccountNo: "76",
		CrAccountNo: "51",
		Amount:      decimal.NewFromInt(200),
	})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	handler := NewEntryHandler(&postingServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/entries/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_ListByAccount(t *testing.T) {
	handler := NewEntryHandler(&postingServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
			if input.AccountNo != "51" || input.Limit != 5 || input.Offset != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Entry{{ID: "entry-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/51/entries?limit=5&offset=1", nil)
	req = setChiURLParam(req, "no", "51")
	rec := httptest.NewRecorder()

	handler.ListByAccount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
