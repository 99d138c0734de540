package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreLoadAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"email", "display_name", "credits"}).
		AddRow("ada@example.com", "Ada", 3).
		AddRow("bob@example.com", "", 0)
	mock.ExpectQuery("SELECT email, display_name, credits").WillReturnRows(rows)

	accounts, err := (&PGStore{DB: db}).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(accounts) != 2 || accounts["ada@example.com"].Credits != 3 {
		t.Fatalf("unexpected accounts %v", accounts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSaveAllReplacesRowsInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ledger_accounts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO ledger_accounts").
		WithArgs("ada@example.com", "Ada", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ledger_accounts").
		WithArgs("bob@example.com", "Bob", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = (&PGStore{DB: db}).SaveAll(context.Background(), map[string]Account{
		"bob@example.com": {Email: "bob@example.com", DisplayName: "Bob", Credits: 1},
		"ada@example.com": {Email: "ada@example.com", DisplayName: "Ada", Credits: 3},
	})
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSaveAllRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("constraint violation")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM ledger_accounts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO ledger_accounts").WillReturnError(boom)
	mock.ExpectRollback()

	err = (&PGStore{DB: db}).SaveAll(context.Background(), map[string]Account{
		"ada@example.com": {Email: "ada@example.com", Credits: 3},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
