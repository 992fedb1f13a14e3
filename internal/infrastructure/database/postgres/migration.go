// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	models := []interface{}{
		&event.Event{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for catalog queries
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_events_seq_unique ON events(seq)",
		"CREATE INDEX IF NOT EXISTS idx_events_date_time ON events(date, time)",
		"CREATE INDEX IF NOT EXISTS idx_events_title_lower ON events(lower(title))",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.Infof("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedEvents loads the fixture into an empty events table. A table that
// already holds events is left alone so created events survive restarts.
func (m *Migration) SeedEvents(fixture []event.Event) error {
	var count int64
	if err := m.db.Model(&event.Event{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if count > 0 {
		m.logger.WithField("events", count).Info("🌱 Events table already seeded")
		return nil
	}

	if len(fixture) == 0 {
		return nil
	}

	m.logger.Info("🌱 Seeding events...")

	rows := make([]event.Event, len(fixture))
	for i, ev := range fixture {
		rows[i] = ev.Clone()
		rows[i].Seq = int64(i + 1)
	}

	if err := m.db.CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	m.logger.WithField("events", len(rows)).Info("✅ Events seeded successfully")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("⚠️ WARNING: Dropping all database tables...")

	tables := []string{
		"events",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			m.logger.WithError(err).Warnf("⚠️ Failed to drop table %s", table)
		} else {
			m.logger.Infof("🗑️ Dropped table: %s", table)
		}
	}

	return nil
}
