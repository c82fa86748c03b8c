package database

import (
	"errors"
	"strings"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"gorm.io/gorm"
)

const (
	SearchByPerson      = "pessoa"
	SearchByApplication = "candidatura"
)

type ApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{db}
}

// ApplicationFilter narrows the admin listing. By is SearchByPerson (name or
// email) or SearchByApplication (objective); Term is matched case-insensitively
// as a substring. An empty Term lists everything.
type ApplicationFilter struct {
	By   string
	Term string
}

// Search lists applications newest first with their person loaded.
func (r *ApplicationRepo) Search(filter ApplicationFilter) ([]models.Application, error) {
	query := r.db.Model(&models.Application{}).Preload("Person")

	if term := strings.TrimSpace(filter.Term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		switch filter.By {
		case SearchByApplication:
			query = query.Where("LOWER(candidatura.vaga_objetivo) LIKE ?", pattern)
		default:
			query = query.
				Joins("JOIN pessoa ON pessoa.id = candidatura.pessoa_id").
				Where("LOWER(pessoa.nome_completo) LIKE ? OR LOWER(pessoa.email) LIKE ?", pattern, pattern)
		}
	}

	var applications []models.Application
	err := query.Order("candidatura.data_candidatura DESC").Order("candidatura.id DESC").Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepo) FindByID(id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("application")
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// FindByPerson returns every application of a person, newest first.
func (r *ApplicationRepo) FindByPerson(personID uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.Where("pessoa_id = ?", personID).
		Order("data_candidatura DESC").Order("id DESC").
		Find(&applications).Error
	return applications, err
}

// LatestForPerson returns nil, nil when the person never applied.
func (r *ApplicationRepo) LatestForPerson(personID uint) (*models.Application, error) {
	var applications []models.Application
	err := r.db.Where("pessoa_id = ?", personID).
		Order("data_candidatura DESC").Order("id DESC").
		Limit(1).Find(&applications).Error
	if err != nil {
		return nil, err
	}
	if len(applications) == 0 {
		return nil, nil
	}
	return &applications[0], nil
}

func (r *ApplicationRepo) Add(application *models.Application) error {
	return r.db.Omit("Person").Create(application).Error
}

func (r *ApplicationRepo) Delete(id uint) error {
	res := r.db.Delete(&models.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("application")
	}
	return nil
}

func (r *ApplicationRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Application{}).Count(&n).Error
	return n, err
}
