package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func mustCustomer(t *testing.T, name, phone string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(name, phone)
	require.NoError(t, err)
	return c
}

func TestGormCustomerRepository_FindByID_Mock(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "phone", "opt_out"}).
			AddRow(id, "김철수", "01012345678", false)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, "01012345678", c.Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(newTestDB(t))

	kim := mustCustomer(t, "김철수", "010-1111-2222")
	lee := mustCustomer(t, "이영희", "010-3333-4444")
	lee.SetOptOut(true)
	park := mustCustomer(t, "박민수", "010-5555-6666")
	require.NoError(t, park.Update("박민수", "경기도 수원시 영통구", ""))
	for _, c := range []*customer.Customer{kim, lee, park} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("finds by normalized phone", func(t *testing.T) {
		got, err := repo.FindByPhone(ctx, "01011112222")
		require.NoError(t, err)
		assert.Equal(t, kim.ID, got.ID)

		_, err = repo.FindByPhone(ctx, "01099999999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by phone list", func(t *testing.T) {
		got, err := repo.FindByPhones(ctx, []string{"01011112222", "01033334444", "01000000000"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("searches name, phone and address", func(t *testing.T) {
		f := customer.ListFilter{Filter: shared.Filter{Search: "수원"}}
		items, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, park.ID, items[0].ID)

		f.Search = "3333"
		items, _, err = repo.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, lee.ID, items[0].ID)
	})

	t.Run("treats like wildcards literally", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, customer.ListFilter{Filter: shared.Filter{Search: "%"}})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("filters opt-out", func(t *testing.T) {
		yes := true
		items, total, err := repo.FindAll(ctx, customer.ListFilter{OptOut: &yes})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, lee.ID, items[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		f := customer.ListFilter{Filter: shared.Filter{Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc"}}
		items, total, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 1)
	})

	t.Run("reports opted-out phones only", func(t *testing.T) {
		got, err := repo.OptedOutPhones(ctx, []string{"01011112222", "01033334444"})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"01033334444": true}, got)
	})

	t.Run("exists by phone", func(t *testing.T) {
		ok, err := repo.ExistsByPhone(ctx, "01055556666")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, park.ID))
		assert.ErrorIs(t, repo.Delete(ctx, park.ID), shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_FindByPhones_Chunked(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(newTestDB(t))

	phones := make([]string, 0, inClauseLimit+5)
	for i := 0; i < inClauseLimit+5; i++ {
		phones = append(phones, fmt.Sprintf("0109%07d", i))
	}
	require.NoError(t, repo.Save(ctx, mustCustomer(t, "첫번째", phones[0])))
	require.NoError(t, repo.Save(ctx, mustCustomer(t, "마지막", phones[len(phones)-1])))

	got, err := repo.FindByPhones(ctx, phones)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
