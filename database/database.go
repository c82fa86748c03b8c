package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db              *gorm.DB
	personRepo      *PersonRepo
	applicationRepo *ApplicationRepo
	specialistRepo  *SpecialistRepo
	blogPostRepo    *BlogPostRepo
	userRepo        *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		personRepo:      NewPersonRepo(db),
		applicationRepo: NewApplicationRepo(db),
		specialistRepo:  NewSpecialistRepo(db),
		blogPostRepo:    NewBlogPostRepo(db),
		userRepo:        NewUserRepo(db),
	}
}

// WithContext returns a copy whose repositories run their queries under ctx.
func (d Database) WithContext(ctx context.Context) Database {
	return New(d.db.WithContext(ctx))
}

// Transaction runs fn against repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Accessor methods for each repository

func (d Database) PersonRepo() *PersonRepo {
	return d.personRepo
}

func (d Database) ApplicationRepo() *ApplicationRepo {
	return d.applicationRepo
}

func (d Database) SpecialistRepo() *SpecialistRepo {
	return d.specialistRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping checks that the primary connection answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
