package deals

import (
	"context"
	"errors"
	"testing"
)

func TestCreateDefaultsToSourcing(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	deal, err := svc.Create(context.Background(), "u1", CreateInput{Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if deal.Stage != StageSourcing {
		t.Fatalf("stage = %q, want sourcing", deal.Stage)
	}
	if deal.ID == "" {
		t.Fatal("id not assigned")
	}
}

func TestCreateRequiresCompany(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(context.Background(), "u1", CreateInput{Company: "   "}); !errors.Is(err, ErrCompanyRequired) {
		t.Fatalf("err = %v, want ErrCompanyRequired", err)
	}
}

func TestChangeStage(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	deal, err := svc.Create(ctx, "u1", CreateInput{Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deal, err = svc.ChangeStage(ctx, "u1", deal.ID, StageDiligence)
	if err != nil {
		t.Fatalf("to diligence: %v", err)
	}
	if deal.Stage != StageDiligence {
		t.Fatalf("stage = %q", deal.Stage)
	}

	// Backwards movement along the pipeline is allowed for active deals.
	if _, err := svc.ChangeStage(ctx, "u1", deal.ID, StageScreening); err != nil {
		t.Fatalf("back to screening: %v", err)
	}

	if _, err := svc.ChangeStage(ctx, "u1", deal.ID, "won"); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("err = %v, want ErrInvalidStage", err)
	}
}

func TestChangeStageTerminal(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	deal, err := svc.Create(ctx, "u1", CreateInput{Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ChangeStage(ctx, "u1", deal.ID, StagePassed); err != nil {
		t.Fatalf("to passed: %v", err)
	}
	if _, err := svc.ChangeStage(ctx, "u1", deal.ID, StageSourcing); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition out of passed", err)
	}
}

func TestListFiltersByStageAndOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(ctx, "u1", CreateInput{Company: "Acme"}); err != nil {
		t.Fatal(err)
	}
	screening, err := svc.Create(ctx, "u1", CreateInput{Company: "Beta", Stage: StageScreening})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "u2", CreateInput{Company: "Other"}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, "u1", StageScreening, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != screening.ID {
		t.Fatalf("list = %+v, want only the screening deal", list)
	}

	all, err := svc.List(ctx, "u1", "", 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list all = %d deals, want 2", len(all))
	}
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	deal, err := svc.Create(ctx, "u1", CreateInput{Company: "Acme", Sector: "fintech"})
	if err != nil {
		t.Fatal(err)
	}

	notes := "met the founders"
	updated, err := svc.Update(ctx, "u1", deal.ID, UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("notes = %q", updated.Notes)
	}
	if updated.Sector != "fintech" {
		t.Fatalf("sector changed unexpectedly: %q", updated.Sector)
	}
}
