package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/iho/fundengine/internal/adapter/repository/postgres"
	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/infrastructure/postgres"
	"github.com/iho/fundengine/internal/usecase"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL and applies the migrations. The test
// is skipped when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	// Tests run from the package directory; walk up to the module root.
	migrationsPath := "migrations"
	for _, p := range []string{"migrations", "../migrations", "../../migrations"} {
		if _, err := os.Stat(p); err == nil {
			migrationsPath = p
			break
		}
	}

	if err := postgres.NewMigrator(dbURL, migrationsPath, zerolog.Nop()).Up(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 2)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE
			outbox_events,
			fund_metrics,
			portfolio_investments,
			distribution_allocations,
			distributions,
			capital_call_responses,
			capital_calls,
			lp_commitments,
			funds
		CASCADE
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Deps wires the Postgres repositories. maxRetries bounds the serializable
// retry loop.
func (db *TestDB) Deps(maxRetries int) usecase.Deps {
	return usecase.Deps{
		TxManager: postgresRepo.NewTxManager(db.Pool),
		Retrier:   postgresRepo.NewRetrier(maxRetries, zerolog.Nop()),
		Repos: usecase.Repositories{
			Funds:         postgresRepo.NewFundRepository(db.Pool),
			Commitments:   postgresRepo.NewCommitmentRepository(db.Pool),
			CapitalCalls:  postgresRepo.NewCapitalCallRepository(db.Pool),
			Distributions: postgresRepo.NewDistributionRepository(db.Pool),
			Investments:   postgresRepo.NewInvestmentRepository(db.Pool),
			Metrics:       postgresRepo.NewMetricsRepository(db.Pool),
			Outbox:        postgresRepo.NewOutboxRepository(db.Pool),
		},
		IDGen:  postgresRepo.NewULIDGenerator(),
		Logger: zerolog.Nop(),
	}
}

// StandardTerms are 2 and 20 with an 8% hurdle and full catch-up.
func StandardTerms() domain.FundTerms {
	return domain.FundTerms{
		ManagementFeeRate:   decimal.NewFromInt(2),
		CarriedInterestRate: decimal.NewFromInt(20),
		PreferredReturnRate: decimal.NewFromInt(8),
		GPCatchupRate:       decimal.NewFromInt(100),
		WaterfallType:       domain.WaterfallEuropean,
		CatchupBasis:        domain.CatchupBasisPreferredReturn,
	}
}

// SeedFund creates a 10M fund with two LPs committing 6M and 4M.
func (db *TestDB) SeedFund(ctx context.Context, d usecase.Deps) (*domain.Fund, []*domain.LPCommitment) {
	db.t.Helper()

	funds := usecase.NewFundUseCase(d)
	fund, err := funds.CreateFund(ctx, usecase.CreateFundInput{
		Name:       "Integration Fund I",
		Currency:   "USD",
		TargetSize: decimal.NewFromInt(10_000_000),
		HardCap:    decimal.NewFromInt(10_000_000),
		Terms:      StandardTerms(),
	})
	if err != nil {
		db.t.Fatalf("failed to create fund: %v", err)
	}

	var lps []*domain.LPCommitment
	for _, lp := range []struct {
		name   string
		amount int64
	}{
		{"Pension Plan A", 6_000_000},
		{"Endowment B", 4_000_000},
	} {
		c, err := funds.AddCommitment(ctx, usecase.AddCommitmentInput{
			FundID:       fund.ID,
			InvestorName: lp.name,
			Amount:       decimal.NewFromInt(lp.amount),
		})
		if err != nil {
			db.t.Fatalf("failed to add commitment: %v", err)
		}
		lps = append(lps, c)
	}

	return fund, lps
}

// IssueCall drafts and issues a capital call for investment.
func (db *TestDB) IssueCall(ctx context.Context, d usecase.Deps, fundID string, investment decimal.Decimal) *domain.CapitalCall {
	db.t.Helper()

	calls := usecase.NewCapitalCallUseCase(d)
	call, err := calls.CreateCapitalCall(ctx, usecase.CreateCapitalCallInput{
		FundID:     fundID,
		Purpose:    "Series A",
		CallDate:   time.Now().UTC(),
		DueDate:    time.Now().UTC().AddDate(0, 0, 10),
		Components: domain.CallComponents{Investment: investment},
	})
	if err != nil {
		db.t.Fatalf("failed to create capital call: %v", err)
	}

	call, err = calls.IssueCapitalCall(ctx, call.ID)
	if err != nil {
		db.t.Fatalf("failed to issue capital call: %v", err)
	}
	return call
}
