package reports

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateStoresProvenance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := Report{
		ID:            "report-1",
		DealID:        "deal-1",
		UserID:        "user-1",
		Status:        StatusQueued,
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		ReportVersion: "dd:v1",
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO diligence_reports").
		WithArgs(
			report.ID,
			report.DealID,
			report.UserID,
			sqlmock.AnyArg(), // document_id, null here
			report.Status,
			report.Provider,
			report.Model,
			report.ReportVersion,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedWritesClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE diligence_reports").
		WithArgs(ErrorCodeLLMTimeout, "openai request timeout", true, completedAt, "report-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "report-1", ErrorCodeLLMTimeout, "openai request timeout", true, completedAt); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
