package persistence

import (
	"testing"

	"github.com/masgolf/backend/internal/domain/analytics"
	"github.com/masgolf/backend/internal/domain/batch"
	"github.com/masgolf/backend/internal/domain/booking"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/content"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/gift"
	"github.com/masgolf/backend/internal/domain/identity"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/survey"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: gets its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&customer.Customer{},
		&booking.Booking{},
		&booking.Settings{},
		&booking.Hours{},
		&booking.Block{},
		&survey.Survey{},
		&catalog.Product{},
		&inventory.Transaction{},
		&gift.CustomerGift{},
		&messaging.ChannelSMS{},
		&messaging.MessageLog{},
		&analytics.Settings{},
		&content.BlogPost{},
		&content.ImageMetadata{},
		&content.MonthlyFunnelPlan{},
		&batch.Job{},
		&identity.AdminUser{},
	)
	require.NoError(t, err)
	return db
}
