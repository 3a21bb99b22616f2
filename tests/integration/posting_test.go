package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/olviko/shiftledger/internal/adapter/repository/postgres"
	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
	"github.com/olviko/shiftledger/tests/testutil"
)

func newPostingUseCase(db *testutil.TestDB) *usecase.PostingUseCase {
	return usecase.NewPostingUseCase(
		postgresRepo.NewTxManager(db.Pool),
		postgresRepo.NewRetrier(zerolog.Nop()),
		postgresRepo.NewAccountRepository(db.Pool),
		postgresRepo.NewEntryRepository(db.Pool),
		postgresRepo.NewBalanceRepository(db.Pool),
		postgresRepo.NewOperationRepository(db.Pool),
		postgresRepo.NewNullOutboxRepository(),
		postgresRepo.NewULIDGenerator(),
		nil,
		time.UTC,
	)
}

func seedChart(ctx context.Context, db *testutil.TestDB) *domain.Operation {
	db.CreateTestAccount(ctx, "10.1", "Raw materials", domain.KindActive, nil)
	db.CreateTestAccount(ctx, "51", "Bank", domain.KindActive, nil)
	db.CreateTestAccount(ctx, "60", "Suppliers", domain.KindPassive, nil)
	db.CreateTestAccount(ctx, "76", "Clearing", domain.KindActivePassive, nil)
	return db.CreateTestOperation(ctx, "receive material")
}

func TestPostingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	op := seedChart(ctx, db)
	uc := newPostingUseCase(db)
	balanceRepo := postgresRepo.NewBalanceRepository(db.Pool)

	base := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	ts1 := base
	entry, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.RequireFromString("1500.00"),
		EntryDt:     &ts1,
	})
	if err != nil {
		t.Fatalf("failed to post entry: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected entry ID to be assigned")
	}

	// Same-day second posting must aggregate into the same balance row.
	ts2 := base.Add(time.Hour)
	if _, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.RequireFromString("500.00"),
		EntryDt:     &ts2,
	}); err != nil {
		t.Fatalf("failed to post second entry: %v", err)
	}

	row, err := balanceRepo.GetLatest(ctx, "10.1")
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	if row == nil {
		t.Fatal("expected a balance row for 10.1")
	}
	if !row.DrTurnover.Equal(decimal.RequireFromString("2000.00")) {
		t.Fatalf("expected dr turnover 2000.00, got %s", row.DrTurnover)
	}
	if !row.DrBalance.Equal(decimal.RequireFromString("2000.00")) {
		t.Fatalf("expected dr balance 2000.00, got %s", row.DrBalance)
	}

	supplier, err := balanceRepo.GetLatest(ctx, "60")
	if err != nil {
		t.Fatalf("failed to read supplier balance: %v", err)
	}
	if !supplier.CrBalance.Equal(decimal.RequireFromString("2000.00")) {
		t.Fatalf("expected cr balance 2000.00, got %s", supplier.CrBalance)
	}
}

func TestPostingRejectsOutOfOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	op := seedChart(ctx, db)
	uc := newPostingUseCase(db)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	if _, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.NewFromInt(100),
		EntryDt:     &ts,
	}); err != nil {
		t.Fatalf("failed to post entry: %v", err)
	}

	earlier := ts.Add(-time.Minute)
	_, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "10.1",
		CrAccountNo: "60",
		Amount:      decimal.NewFromInt(100),
		EntryDt:     &earlier,
	})

	var outOfOrder *domain.OutOfOrderEntryError
	if !errors.As(err, &outOfOrder) {
		t.Fatalf("expected OutOfOrderEntryError, got %v", err)
	}
	if !outOfOrder.LatestEntryDt.Equal(ts) {
		t.Fatalf("expected latest %v, got %v", ts, outOfOrder.LatestEntryDt)
	}
}

func TestPostingRejectsSignViolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	op := seedChart(ctx, db)
	uc := newPostingUseCase(db)

	// Crediting an empty Active account would drive it negative.
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	_, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "76",
		CrAccountNo: "51",
		Amount:      decimal.NewFromInt(200),
		EntryDt:     &ts,
	})

	var violation *domain.SignViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SignViolationError, got %v", err)
	}
	if violation.AccountNo != "51" {
		t.Fatalf("expected violation on account 51, got %s", violation.AccountNo)
	}

	// Nothing must be persisted after the rollback.
	entries, err := postgresRepo.NewEntryRepository(db.Pool).List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries after rollback, got %d", len(entries))
	}
}

func TestPostingRejectsSummaryAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	db.CreateTestAccount(ctx, "10", "Materials", domain.KindActive, nil)
	parent := "10"
	db.CreateTestAccount(ctx, "10.1", "Raw materials", domain.KindActive, &parent)
	db.CreateTestAccount(ctx, "60", "Suppliers", domain.KindPassive, nil)
	op := db.CreateTestOperation(ctx, "receive material")

	uc := newPostingUseCase(db)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	_, err := uc.PostEntry(ctx, domain.PostEntryRequest{
		OperationID: op.ID,
		DrAccountNo: "10",
		CrAccountNo: "60",
		Amount:      decimal.NewFromInt(100),
		EntryDt:     &ts,
	})
	if !errors.Is(err, domain.ErrAccountNotPostable) {
		t.Fatalf("expected ErrAccountNotPostable, got %v", err)
	}
}
