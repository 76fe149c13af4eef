//go:generate go tool github.com/maxbrunsfeld/counterfeiter/v6 -generate

package repos

import (
	"fmt"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

//counterfeiter:generate -o ../../mocks/scanner.go . Scanner

type (
	// Scanner maps pgx rows onto the db-tagged row structs of this package.
	Scanner interface {
		ScanAll(dst any, rows pgx.Rows) error
		ScanOne(dst any, rows pgx.Rows) error
		IsNotFound(err error) bool
	}

	// PgxScanner implements Scanner using a strict pgxscan API: every
	// selected column must map to a struct field.
	PgxScanner struct {
		api *pgxscan.API
	}
)

func NewPgxScanner() *PgxScanner {
	dbscanAPI, err := pgxscan.NewDBScanAPI(
		dbscan.WithStructTagKey("db"),
		dbscan.WithAllowUnknownColumns(false),
	)
	if err != nil {
		panic(fmt.Sprintf("configuring row scanner: %v", err))
	}

	api, err := pgxscan.NewAPI(dbscanAPI)
	if err != nil {
		panic(fmt.Sprintf("configuring row scanner: %v", err))
	}

	return &PgxScanner{api: api}
}

func (s *PgxScanner) ScanAll(dst any, rows pgx.Rows) error {
	return s.api.ScanAll(dst, rows)
}

func (s *PgxScanner) ScanOne(dst any, rows pgx.Rows) error {
	return s.api.ScanOne(dst, rows)
}

func (s *PgxScanner) IsNotFound(err error) bool {
	return pgxscan.NotFound(err)
}
