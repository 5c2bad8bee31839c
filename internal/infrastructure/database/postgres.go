package database

import (
	"github.com/cockroachdb/errors"
	"github.com/sangkips/counterpos/internal/config"
	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *logger.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Infow("connected to PostgreSQL", "host", cfg.Host, "database", cfg.Name)
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *logger.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Staff{},

		// Menu
		&entity.Product{},
		&entity.ProductModifier{},

		// Discounts
		&entity.Coupon{},
		&entity.CouponRedemption{},

		// Orders
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderItemModifier{},

		// System entities
		&entity.ShopSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the shop settings row from configuration and an
// admin account from ADMIN_EMAIL / ADMIN_PASSWORD when they are set. Existing
// rows are left untouched.
func SeedDefaultData(db *gorm.DB, shop config.ShopConfig, assets config.AssetsConfig, log *logger.Logger) error {
	var count int64
	if err := db.Model(&entity.ShopSettings{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count shop settings")
	}
	if count == 0 {
		settings := &entity.ShopSettings{
			ID:             entity.ShopSettingsID,
			Name:           shop.Name,
			Address:        shop.Address,
			Phone:          shop.Phone,
			VATNumber:      shop.VATNumber,
			TaxRate:        shop.TaxRate,
			TaxLabel:       shop.TaxLabel,
			CurrencySymbol: shop.CurrencySymbol,
			Footer:         shop.Footer,
			LogoPath:       assets.LogoPath,
			QRPath:         assets.QRPath,
		}
		if err := db.Create(settings).Error; err != nil {
			return errors.Wrap(err, "seed shop settings")
		}
		log.Infow("seeded shop settings", "name", shop.Name)
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.Staff
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(err, "look up admin")
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	if adminName == "" {
		adminName = "Admin"
	}
	admin := &entity.Staff{
		Name:     adminName,
		Email:    adminEmail,
		Password: hashed,
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Warnw("failed to create admin account", "email", adminEmail, "error", err)
		return nil
	}
	log.Infow("admin account created", "email", adminEmail)
	return nil
}
