package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"novblog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSessionRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := models.Session{Token: "tok", UserID: 7, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("tok", 7, fmtTime(s.CreatedAt), fmtTime(s.ExpiresAt)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(insertSessionSQL)).
		WithArgs("tok2", 7, fmtTime(s.CreatedAt), fmtTime(s.ExpiresAt)).
		WillReturnError(errors.New("db exec failed"))

	s.Token = "tok2"
	err := repo.Create(context.Background(), s)
	if err == nil || !contains(err.Error(), "insert session") {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}
}

func TestSessionRepository_Get(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := created.Add(time.Hour)

	tests := []struct {
		name        string
		token       string
		mockExpect  func(sqlmock.Sqlmock)
		wantSession *models.Session
		wantErr     bool
	}{
		{
			name:  "found",
			token: "tok",
			mockExpect: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"token", "user_id", "created_at", "expires_at"}).
					AddRow("tok", 7, created, expires)
				m.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
					WithArgs("tok").
					WillReturnRows(rows)
			},
			wantSession: &models.Session{Token: "tok", UserID: 7, CreatedAt: created, ExpiresAt: expires},
		},
		{
			name:  "not found (ErrNoRows)",
			token: "missing",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantSession: nil,
		},
		{
			name:  "query error",
			token: "tok",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
					WithArgs("tok").
					WillReturnError(errors.New("db query failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := newMockDB(t)
			defer cleanup()
			repo := NewSessionRepository(db)

			tt.mockExpect(mock)

			s, err := repo.Get(context.Background(), tt.token)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantSession == nil {
				if s != nil {
					t.Fatalf("expected nil session, got %+v", s)
				}
				return
			}
			if s == nil {
				t.Fatalf("expected session, got nil")
			}
			if s.Token != tt.wantSession.Token || s.UserID != tt.wantSession.UserID ||
				!s.ExpiresAt.Equal(tt.wantSession.ExpiresAt) {
				t.Fatalf("unexpected session: want %+v, got %+v", tt.wantSession, s)
			}
		})
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// deleting a missing token affects zero rows and is still fine
	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSessionSQL)).
		WithArgs(fmtTime(now)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 purged rows, got %d", n)
	}
}
