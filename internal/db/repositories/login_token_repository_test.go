package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Bernardstanislas/secretariat/internal/models/entities"
	"github.com/jmoiron/sqlx"
)

func newTokenRepoWithMock(t *testing.T) (*LoginTokenRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewLoginTokenRepo(sqlx.NewDb(db, "postgres")), mock, db
}

const (
	insertTokenQ  = `(?s)^\s*INSERT\s+INTO\s+login_tokens\s*\(token,\s*username,\s*email,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`
	consumeTokenQ = `(?s)^\s*DELETE\s+FROM\s+login_tokens\s+WHERE\s+token\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s+RETURNING\s+token,\s*username,\s*email,\s*expires_at\s*$`
	purgeTokensQ  = `(?s)^\s*DELETE\s+FROM\s+login_tokens\s+WHERE\s+expires_at\s*<=\s*\$1\s*$`
)

func TestLoginTokenCreate_Success(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	exp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(insertTokenQ).
		WithArgs("tok", "jean.dupont", "jean@example.org", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &entities.LoginToken{
		Token: "tok", Username: "jean.dupont", Email: "jean@example.org", ExpiresAt: exp,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginTokenCreate_DBError(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertTokenQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &entities.LoginToken{Token: "tok"})
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestLoginTokenConsume_Found(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{"token", "username", "email", "expires_at"}).
		AddRow("tok", "jean.dupont", "jean@example.org", exp)
	mock.ExpectQuery(consumeTokenQ).WithArgs("tok", now).WillReturnRows(rows)

	got, err := repo.Consume(context.Background(), "tok", now)
	if err != nil {
		t.Fatalf("Consume error: %v", err)
	}
	if got.Username != "jean.dupont" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected token: %+v", got)
	}
}

func TestLoginTokenConsume_NotFound(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(consumeTokenQ).
		WithArgs("gone", now).
		WillReturnRows(sqlmock.NewRows([]string{"token", "username", "email", "expires_at"}))

	_, err := repo.Consume(context.Background(), "gone", now)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("want ErrTokenNotFound, got %v", err)
	}
}

func TestLoginTokenConsume_DBError(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(consumeTokenQ).WillReturnError(errors.New("db err"))

	_, err := repo.Consume(context.Background(), "tok", time.Now())
	if err == nil || errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestLoginTokenPurgeExpired(t *testing.T) {
	repo, mock, db := newTokenRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(purgeTokensQ).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows purged, got %d", n)
	}
}
