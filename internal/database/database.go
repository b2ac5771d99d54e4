package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/librarium-app/librarium/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Member{},
		&entities.StaffUser{},
		&entities.Transaction{},
		&entities.ArchivedTransaction{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedOwner creates the owner account if no owner row exists yet. Owner
// identities are never minted through the staff API, so this is the only
// path that produces an OWN-prefixed id.
func (d *Database) SeedOwner(email, passwordHash, fname, lname string) error {
	if email == "" || passwordHash == "" {
		return nil
	}

	var existing entities.StaffUser
	err := d.DB.Where("id LIKE ?", entities.PrefixOwner+"%").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for owner account: %w", err)
	}

	owner := entities.StaffUser{
		ID:           fmt.Sprintf("%s%0*d", entities.PrefixOwner, entities.StaffIDSuffixWidth, 1),
		Role:         entities.RoleOwner,
		Fname:        fname,
		Lname:        lname,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := d.DB.Create(&owner).Error; err != nil {
		return fmt.Errorf("failed to seed owner account: %w", err)
	}

	log.Printf("Seeded owner account %s (%s)", owner.ID, owner.Email)
	return nil
}
