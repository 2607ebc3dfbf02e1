package journal

import (
	"testing"
	"time"

	"github.com/BEAUVILLE/abos/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAttempt(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	manager := Manager{Db: mockdb}

	mock.ExpectExec(`INSERT INTO pay_attempts \(id, reference, slug, phone, module, plan, amount, proof_path, state\)`).
		WithArgs("attempt-1", "DIGIY-POS-1-ABC", "standard-a1b2c3d4", "221771234567",
			"POS", "standard", int64(12900), "proofs/1-a.jpg", models.AttemptUploading).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = manager.PutAttempt(&models.Attempt{
		ID:        "attempt-1",
		Reference: "DIGIY-POS-1-ABC",
		Slug:      "standard-a1b2c3d4",
		Phone:     "221771234567",
		Module:    "POS",
		Plan:      "standard",
		Amount:    12900,
		ProofPath: "proofs/1-a.jpg",
		State:     models.AttemptUploading,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAttempt(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	manager := Manager{Db: mockdb}

	mock.ExpectExec(`UPDATE pay_attempts`).
		WithArgs("attempt-1", models.AttemptFailed, "duplicate_reference").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = manager.UpdateAttempt("attempt-1", models.AttemptFailed, "duplicate_reference")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaleUploads(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	manager := Manager{Db: mockdb}

	updatedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, reference, slug, phone, module, plan, amount, proof_path, state, updated_at FROM pay_attempts`).
		WithArgs(models.AttemptUploaded, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "slug", "phone", "module", "plan", "amount", "proof_path", "state", "updated_at"}).
			AddRow("attempt-1", "DIGIY-POS-1-ABC", "standard-a1b2c3d4", "221771234567",
				"POS", "standard", int64(12900), "proofs/1-a.jpg", models.AttemptUploaded, updatedAt))

	attempts, err := manager.StaleUploads(30 * time.Minute)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "attempt-1", attempts[0].ID)
	assert.Equal(t, "proofs/1-a.jpg", attempts[0].ProofPath)
	assert.Equal(t, models.AttemptUploaded, attempts[0].State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkOrphaned(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	manager := Manager{Db: mockdb}

	mock.ExpectExec(`UPDATE pay_attempts`).
		WithArgs("attempt-1", models.AttemptOrphaned, "uploaded object has no payment record").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = manager.MarkOrphaned("attempt-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
