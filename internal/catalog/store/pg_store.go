package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on barcode. It backstops the duplicate check against concurrent
// inserts of the same new barcode.
const uniqueViolation = "23505"

const productColumns = "id, name, image, quantity, category, barcode, created_at"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves stored products with pagination support.
func (p *PgStore) FindAll(ctx context.Context, offset, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at, id OFFSET $1 LIMIT $2",
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list products: %v", cerrors.ErrStorageFailure, err)
	}
	return collectProducts(rows)
}

// FindByBarcode retrieves the product carrying the given barcode.
func (p *PgStore) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return p.findOne(ctx,
		"SELECT "+productColumns+" FROM products WHERE barcode = $1", barcode)
}

// FindByName retrieves the product with the given name.
func (p *PgStore) FindByName(ctx context.Context, name string) (*Product, error) {
	return p.findOne(ctx,
		"SELECT "+productColumns+" FROM products WHERE name = $1", name)
}

// SearchByName returns products whose name contains the fragment, case-insensitively.
func (p *PgStore) SearchByName(ctx context.Context, fragment string, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2",
		fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search products: %v", cerrors.ErrStorageFailure, err)
	}
	return collectProducts(rows)
}

// Create persists a new product and returns the stored record.
func (p *PgStore) Create(ctx context.Context, product Product) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`INSERT INTO products (name, image, quantity, category, barcode)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		product.Name, product.Image, product.Quantity, product.Category, product.Barcode)

	created, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, cerrors.ErrDuplicateProduct
		}
		return nil, fmt.Errorf("%w: failed to create product: %v", cerrors.ErrStorageFailure, err)
	}
	return created, nil
}

// UpdateByName rewrites quantity and category for the product with the given name.
func (p *PgStore) UpdateByName(ctx context.Context, name string, quantity *int64, category []string) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`UPDATE products SET quantity = $2, category = $3 WHERE name = $1
		 RETURNING `+productColumns,
		name, quantity, category)

	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: failed to update product: %v", cerrors.ErrStorageFailure, err)
	}
	return updated, nil
}

// DeleteByName removes the product with the given name.
func (p *PgStore) DeleteByName(ctx context.Context, name string) error {
	tag, err := p.db.Exec(ctx, "DELETE FROM products WHERE name = $1", name)
	if err != nil {
		return fmt.Errorf("%w: failed to delete product: %v", cerrors.ErrStorageFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return cerrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) findOne(ctx context.Context, query string, arg any) (*Product, error) {
	row := p.db.QueryRow(ctx, query, arg)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: failed to find product: %v", cerrors.ErrStorageFailure, err)
	}
	return product, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(&product.ID, &product.Name, &product.Image,
		&product.Quantity, &product.Category, &product.Barcode, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan product: %v", cerrors.ErrStorageFailure, err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read products: %v", cerrors.ErrStorageFailure, err)
	}
	return products, nil
}
