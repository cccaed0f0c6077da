package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicresolve/backend/internal/domain/repository"
)

// AadhaarDirectory checks national ids against the aadhaar_directory table.
type AadhaarDirectory struct {
	pool *pgxpool.Pool
}

func NewAadhaarDirectory(pool *pgxpool.Pool) *AadhaarDirectory {
	return &AadhaarDirectory{pool: pool}
}

func (d *AadhaarDirectory) Contains(nationalID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM aadhaar_directory WHERE national_id = $1)`, nationalID).Scan(&exists)
	return exists, err
}

var _ repository.AadhaarDirectory = (*AadhaarDirectory)(nil)
