package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olviko/shiftledger/internal/adapter/http/dto"
	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

type accountServiceStub struct {
	createFn           func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn              func(ctx context.Context, accountNo string) (*domain.Account, error)
	resolveFn          func(ctx context.Context, accountNo string) (*domain.Account, error)
	listFn             func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	listChildrenFn     func(ctx context.Context, accountNo string) ([]*domain.Account, error)
	getLatestBalanceFn func(ctx context.Context, accountNo string) (*domain.AccountBalance, error)
	listBalancesFn     func(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.AccountBalance, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	return s.getFn(ctx, accountNo)
}

func (s *accountServiceStub) ResolveAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	return s.resolveFn(ctx, accountNo)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error) {
	return s.listChildrenFn(ctx, accountNo)
}

func (s *accountServiceStub) GetLatestBalance(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
	return s.getLatestBalanceFn(ctx, accountNo)
}

func (s *accountServiceStub) ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.AccountBalance, error) {
	return s.listBalancesFn(ctx, input)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		AccountNo:   "10.1",
		AccountName: "raw materials",
		Kind:        domain.KindActive,
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	parent := "10"
	body, _ := json.Marshal(dto.CreateAccountRequest{
		AccountNo:       "10.1",
		AccountName:     "raw materials",
		Kind:            "A",
		ParentAccountNo: &parent,
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountNo != "10.1" || captured.Kind != domain.KindActive {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if captured.ParentAccountNo == nil || *captured.ParentAccountNo != "10" {
		t.Fatalf("expected parent 10, got %v", captured.ParentAccountNo)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountNo != "10.1" {
		t.Fatalf("expected account 10.1, got %s", resp.AccountNo)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Duplicate(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrAccountExists
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{AccountNo: "51", AccountName: "bank", Kind: "A"})
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, accountNo string) (*domain.Account, error) {
			return &domain.Account{AccountNo: accountNo, AccountName: "bank", Kind: domain.KindActive}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/51", nil)
	req = setChiURLParam(req, "no", "51")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, accountNo string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/99", nil)
	req = setChiURLParam(req, "no", "99")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			if input.Limit != 5 || input.Offset != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return []*domain.Account{{AccountNo: "51"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=5&offset=1", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_GetBalance_NoRows(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getLatestBalanceFn: func(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/51/balance", nil)
	req = setChiURLParam(req, "no", "51")
	rec := httptest.NewRecorder()

	handler.GetBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "null\n" {
		t.Fatalf("expected null body for fresh account, got %q", body)
	}
}

func TestAccountHandler_GetBalance_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getLatestBalanceFn: func(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
			return nil, errors.New("db error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/51/balance", nil)
	req = setChiURLParam(req, "no", "51")
	rec := httptest.NewRecorder()

	handler.GetBalance(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestAccountHandler_Resolve_Success(t *testing.T) {
	leaf := &domain.Account{
		AccountNo:   "10.1",
		AccountName: "raw materials",
		Kind:        domain.KindActive,
	}

	var requested string
	handler := NewAccountHandler(&accountServiceStub{
		resolveFn: func(ctx context.Context, accountNo string) (*domain.Account, error) {
			requested = accountNo
			return leaf, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/10.1/resolve", nil), "no", "10.1")
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if requested != "10.1" {
		t.Fatalf("expected resolve of 10.1, got %q", requested)
	}

	var resp dto.AccountResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountNo != "10.1" {
		t.Fatalf("expected account 10.1, got %+v", resp)
	}
}

func TestAccountHandler_Resolve_SummaryAccount(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		resolveFn: func(ctx context.Context, accountNo string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotPostable
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/10/resolve", nil), "no", "10")
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for summary account, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_BalanceFlagDefault(t *testing.T) {
	var captured usecase.CreateAccountInput
	stub := &accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{AccountNo: input.AccountNo, Kind: input.Kind}, nil
		},
	}
	handler := NewAccountHandler(stub)

	// Omitted is_balance defaults to true.
	req := httptest.NewRequest(http.MethodPost, "/accounts",
		bytes.NewReader([]byte(`{"account_no":"51","account_name":"Bank","kind":"A"}`)))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.IsBalance {
		t.Fatal("expected is_balance to default to true")
	}

	// An explicit false survives.
	req = httptest.NewRequest(http.MethodPost, "/accounts",
		bytes.NewReader([]byte(`{"account_no":"90","account_name":"Sales","kind":"P","is_balance":false}`)))
	rec = httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.IsBalance {
		t.Fatal("expected explicit is_balance=false to be kept")
	}
}
