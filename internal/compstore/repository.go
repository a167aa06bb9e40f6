package compstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/axisproperty/dealengine/internal/schema"
)

// Repository persists comparable sales to PostgreSQL. It is the durable
// store the in-memory Index is built from at pipeline start.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use Repository.
func NewRepository(dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("compstore: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("compstore: ping failed after retries: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("compstore: migrate: %w", err)
	}
	return repo, nil
}

// NewRepositoryFromDB wraps an already-open *sql.DB — used in tests with
// go-sqlmock, where opening a real connection isn't possible.
func NewRepositoryFromDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS comparable_sales (
			sale_id       TEXT PRIMARY KEY,
			address       TEXT NOT NULL,
			postcode      TEXT NOT NULL,
			property_type TEXT NOT NULL,
			tenure        TEXT NOT NULL,
			bedrooms      INTEGER,
			square_feet   INTEGER,
			latitude      DOUBLE PRECISION NOT NULL,
			longitude     DOUBLE PRECISION NOT NULL,
			sale_price    INTEGER NOT NULL,
			sale_date     TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comp_sales_type_tenure
			ON comparable_sales(property_type, tenure);
		CREATE INDEX IF NOT EXISTS idx_comp_sales_postcode ON comparable_sales(postcode);
		CREATE INDEX IF NOT EXISTS idx_comp_sales_sale_date ON comparable_sales(sale_date);
	`)
	return err
}

// InsertBatch upserts sales in batches of 50, matching the teacher's
// batched-insert shape for bulk writes.
func (r *Repository) InsertBatch(sales []ComparableSale) error {
	const batchSize = 50
	for i := 0; i < len(sales); i += batchSize {
		end := i + batchSize
		if end > len(sales) {
			end = len(sales)
		}
		if err := r.insertBatch(sales[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insertBatch(batch []ComparableSale) error {
	if len(batch) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*11)

	for idx, s := range batch {
		base := idx * 11
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		valueArgs = append(valueArgs,
			s.SaleID, s.Address, s.Postcode, string(s.PropertyType), string(s.Tenure),
			s.Bedrooms, s.SquareFeet, s.Latitude, s.Longitude, s.SalePrice, s.SaleDate)
	}

	query := fmt.Sprintf(`
		INSERT INTO comparable_sales
			(sale_id, address, postcode, property_type, tenure, bedrooms, square_feet, latitude, longitude, sale_price, sale_date)
		VALUES %s
		ON CONFLICT (sale_id) DO UPDATE SET
			sale_price = EXCLUDED.sale_price,
			sale_date  = EXCLUDED.sale_date
	`, strings.Join(valueStrings, ","))

	_, err := r.db.Exec(query, valueArgs...)
	return err
}

// FetchAll retrieves every stored comparable sale, ordered by sale_id for
// deterministic downstream indexing.
func (r *Repository) FetchAll() ([]ComparableSale, error) {
	rows, err := r.db.Query(`
		SELECT sale_id, address, postcode, property_type, tenure, bedrooms, square_feet,
		       latitude, longitude, sale_price, sale_date
		FROM comparable_sales
		ORDER BY sale_id
	`)
	if err != nil {
		return nil, fmt.Errorf("compstore: fetch all: %w", err)
	}
	defer rows.Close()

	var sales []ComparableSale
	for rows.Next() {
		var s ComparableSale
		var propertyType, tenure string
		if err := rows.Scan(
			&s.SaleID, &s.Address, &s.Postcode, &propertyType, &tenure,
			&s.Bedrooms, &s.SquareFeet, &s.Latitude, &s.Longitude, &s.SalePrice, &s.SaleDate,
		); err != nil {
			return nil, fmt.Errorf("compstore: scan row: %w", err)
		}
		s.PropertyType = schema.PropertyType(propertyType)
		s.Tenure = schema.Tenure(tenure)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// Close releases the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}
