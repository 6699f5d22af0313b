package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	cerrors "github.com/openpantry/backend/internal/catalog/errors"
)

const skipIntegrationTests = "CATALOG_SVC_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite is a test suite for the PostgreSQL ProductStore implementation.
type ProductStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container, applies the migrations and wires the store.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "catalog_db"
	dbUser := "user"
	dbPassword := "password"

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../../migrations")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

// TestProductStoreIntegration runs the ProductStore integration tests.
func TestProductStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(ProductStoreSuite))
}

// createTestProduct is a helper to insert a product for test setup.
func (s *ProductStoreSuite) createTestProduct(name, barcode string) *Product {
	s.T().Helper()
	product := Product{Name: name}
	if barcode != "" {
		product.Barcode = &barcode
	}
	created, err := s.store.Create(s.ctx, product)
	require.NoError(s.T(), err, "createTestProduct helper failed to create product")
	return created
}

func (s *ProductStoreSuite) TestCreate() {
	s.SetupTest()
	// given
	image := "http://x/img.jpg"
	barcode := "3017620422003"

	// when
	created, err := s.store.Create(s.ctx, Product{
		Name:    "Nutella",
		Image:   &image,
		Barcode: &barcode,
	})

	// then
	require.NoError(s.T(), err)
	require.NotZero(s.T(), created.ID, "Created product ID should not be zero")
	require.Equal(s.T(), "Nutella", created.Name)
	require.NotNil(s.T(), created.Image)
	require.Equal(s.T(), image, *created.Image)
	require.NotNil(s.T(), created.Barcode)
	require.Equal(s.T(), barcode, *created.Barcode)
	require.Nil(s.T(), created.Quantity)
	require.Nil(s.T(), created.Category)
	require.NotZero(s.T(), created.CreatedAt, "CreatedAt should be set")
}

func (s *ProductStoreSuite) TestCreate_DuplicateBarcode() {
	s.SetupTest()
	// given
	s.createTestProduct("Nutella", "3017620422003")
	barcode := "3017620422003"

	// when
	duplicate, err := s.store.Create(s.ctx, Product{Name: "Nutella bis", Barcode: &barcode})

	// then: the partial unique index backstops the duplicate check
	require.ErrorIs(s.T(), err, cerrors.ErrDuplicateProduct)
	require.Nil(s.T(), duplicate)
}

func (s *ProductStoreSuite) TestCreate_NilBarcodesDoNotCollide() {
	s.SetupTest()
	// given / when
	first, err1 := s.store.Create(s.ctx, Product{Name: "Homemade jam"})
	second, err2 := s.store.Create(s.ctx, Product{Name: "Homemade bread"})

	// then: the unique index only covers non-null barcodes
	require.NoError(s.T(), err1)
	require.NoError(s.T(), err2)
	require.NotEqual(s.T(), first.ID, second.ID)
}

func (s *ProductStoreSuite) TestFindByBarcode() {
	s.SetupTest()
	// given
	created := s.createTestProduct("Nutella", "3017620422003")

	// when
	found, err := s.store.FindByBarcode(s.ctx, "3017620422003")

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created.ID, found.ID)

	// when: a barcode nobody carries
	_, err = s.store.FindByBarcode(s.ctx, "0000000000000")

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestFindByName() {
	s.SetupTest()
	// given
	created := s.createTestProduct("Homemade jam", "")

	// when
	found, err := s.store.FindByName(s.ctx, "Homemade jam")

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created.ID, found.ID)

	// when
	_, err = s.store.FindByName(s.ctx, "Ghost")

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestFindAll() {
	s.SetupTest()
	// given
	s.createTestProduct("Nutella", "3017620422003")
	s.createTestProduct("Ovomaltine", "7612100055122")
	s.createTestProduct("Homemade jam", "")

	// when
	page, err := s.store.FindAll(s.ctx, 0, 2)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), page, 2)

	// when
	rest, err := s.store.FindAll(s.ctx, 2, 2)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), rest, 1)

	// when: paging past the end
	empty, err := s.store.FindAll(s.ctx, 10, 2)

	// then
	require.NoError(s.T(), err)
	require.Empty(s.T(), empty)
}

func (s *ProductStoreSuite) TestSearchByName() {
	s.SetupTest()
	// given
	s.createTestProduct("Nutella", "3017620422003")
	s.createTestProduct("Ovomaltine", "7612100055122")

	// when: case-insensitive substring match
	matches, err := s.store.SearchByName(s.ctx, "nut", 10)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), matches, 1)
	require.Equal(s.T(), "Nutella", matches[0].Name)

	// when
	none, err := s.store.SearchByName(s.ctx, "chocolate", 10)

	// then
	require.NoError(s.T(), err)
	require.Empty(s.T(), none)
}

func (s *ProductStoreSuite) TestUpdateByName() {
	s.SetupTest()
	// given
	s.createTestProduct("Nutella", "3017620422003")
	quantity := int64(3)

	// when
	updated, err := s.store.UpdateByName(s.ctx, "Nutella", &quantity, []string{"spreads", "breakfast"})

	// then
	require.NoError(s.T(), err)
	require.NotNil(s.T(), updated.Quantity)
	require.Equal(s.T(), int64(3), *updated.Quantity)
	require.Equal(s.T(), []string{"spreads", "breakfast"}, updated.Category)

	// when
	_, err = s.store.UpdateByName(s.ctx, "Ghost", &quantity, nil)

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestDeleteByName() {
	s.SetupTest()
	// given
	s.createTestProduct("Nutella", "3017620422003")

	// when
	err := s.store.DeleteByName(s.ctx, "Nutella")

	// then
	require.NoError(s.T(), err)
	_, err = s.store.FindByName(s.ctx, "Nutella")
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)

	// when: deleting again
	err = s.store.DeleteByName(s.ctx, "Nutella")

	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}
