package database

import (
	"errors"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"gorm.io/gorm"
)

type PersonRepo struct {
	db *gorm.DB
}

func NewPersonRepo(db *gorm.DB) *PersonRepo {
	return &PersonRepo{db}
}

// Background is the set of child collections replaced on every submission.
type Background struct {
	Education  []models.Education
	Experience []models.Experience
	Languages  []models.Language
	Courses    []models.Course
}

// FindByID returns a person with every child collection loaded.
func (r *PersonRepo) FindByID(id uint) (*models.Person, error) {
	var person models.Person
	err := r.db.
		Preload("Education", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Experience", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Languages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("data_candidatura DESC, id DESC") }).
		First(&person, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("person")
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByEmail matches the email exactly. It returns nil, nil when nobody has it.
func (r *PersonRepo) FindByEmail(email string) (*models.Person, error) {
	var people []models.Person
	if err := r.db.Where("email = ?", email).Limit(1).Find(&people).Error; err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, nil
	}
	return &people[0], nil
}

// Add inserts a new person without children.
func (r *PersonRepo) Add(person *models.Person) error {
	return r.db.Omit("Applications", "Education", "Experience", "Languages", "Courses").Create(person).Error
}

// UpdateProfile overwrites the scalar profile columns, blank values included.
func (r *PersonRepo) UpdateProfile(person *models.Person) error {
	return r.db.Model(person).Select(models.ProfileColumns).Updates(person).Error
}

// ReplaceBackground deletes every education, experience, language and course
// row of the person and inserts the given ones.
func (r *PersonRepo) ReplaceBackground(personID uint, bg Background) error {
	for _, model := range []any{&models.Education{}, &models.Experience{}, &models.Language{}, &models.Course{}} {
		if err := r.db.Where("pessoa_id = ?", personID).Delete(model).Error; err != nil {
			return err
		}
	}

	for i := range bg.Education {
		bg.Education[i].ID = 0
		bg.Education[i].PersonID = personID
	}
	for i := range bg.Experience {
		bg.Experience[i].ID = 0
		bg.Experience[i].PersonID = personID
	}
	for i := range bg.Languages {
		bg.Languages[i].ID = 0
		bg.Languages[i].PersonID = personID
	}
	for i := range bg.Courses {
		bg.Courses[i].ID = 0
		bg.Courses[i].PersonID = personID
	}

	if len(bg.Education) > 0 {
		if err := r.db.Create(&bg.Education).Error; err != nil {
			return err
		}
	}
	if len(bg.Experience) > 0 {
		if err := r.db.Create(&bg.Experience).Error; err != nil {
			return err
		}
	}
	if len(bg.Languages) > 0 {
		if err := r.db.Create(&bg.Languages).Error; err != nil {
			return err
		}
	}
	if len(bg.Courses) > 0 {
		if err := r.db.Create(&bg.Courses).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the person together with its applications and background rows.
func (r *PersonRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.Application{},
			&models.Education{},
			&models.Experience{},
			&models.Language{},
			&models.Course{},
		} {
			if err := tx.Where("pessoa_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Person{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("person")
		}
		return nil
	})
}

func (r *PersonRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Person{}).Count(&n).Error
	return n, err
}
