package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateCompanyAndRecordKPIs(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	company, err := svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Acme", InvestedAmountUSD: 250000, OwnershipPct: 7.5})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	jan := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordKPI(ctx, "u1", company.ID, RecordKPIInput{ReportedAt: jan, RevenueUSD: 40000, BurnUSD: 90000, RunwayMonths: 14, Headcount: 9}); err != nil {
		t.Fatalf("record jan: %v", err)
	}
	if _, err := svc.RecordKPI(ctx, "u1", company.ID, RecordKPIInput{ReportedAt: feb, RevenueUSD: 52000, BurnUSD: 95000, RunwayMonths: 12, Headcount: 11}); err != nil {
		t.Fatalf("record feb: %v", err)
	}

	kpis, err := svc.ListKPIs(ctx, "u1", company.ID, 0)
	if err != nil {
		t.Fatalf("list kpis: %v", err)
	}
	if len(kpis) != 2 || !kpis[0].ReportedAt.Equal(feb) {
		t.Fatalf("kpis = %+v, want newest first", kpis)
	}
}

func TestRecordKPIChecksOwnership(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	company, err := svc.CreateCompany(ctx, "u1", CreateCompanyInput{Name: "Acme"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordKPI(ctx, "u2", company.ID, RecordKPIInput{RevenueUSD: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for another user", err)
	}
}

func TestCreateCompanyRequiresName(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.CreateCompany(context.Background(), "u1", CreateCompanyInput{Name: " "}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}
