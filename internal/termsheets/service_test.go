package termsheets

import (
	"context"
	"errors"
	"testing"
)

func TestGeneratePersistsSheet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	sheet, err := svc.Generate(ctx, "u1", "deal-1", TemplateSAFE, baseVars())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sheet.Body == "" || sheet.ID == "" {
		t.Fatalf("sheet = %+v, want rendered body and id", sheet)
	}

	list, err := svc.ListByDeal(ctx, "u1", "deal-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != sheet.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestGenerateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Generate(ctx, "u1", "deal-1", "ioq", baseVars()); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("err = %v, want ErrUnknownTemplate", err)
	}

	vars := baseVars()
	vars.InvestmentUSD = 0
	if _, err := svc.Generate(ctx, "u1", "deal-1", TemplateSAFE, vars); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
}
