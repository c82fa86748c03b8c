package database

import (
	"errors"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"gorm.io/gorm"
)

type SpecialistRepo struct {
	db *gorm.DB
}

func NewSpecialistRepo(db *gorm.DB) *SpecialistRepo {
	return &SpecialistRepo{db}
}

// FindAll returns every specialist ordered for the admin list.
func (r *SpecialistRepo) FindAll() ([]models.Specialist, error) {
	var specialists []models.Specialist
	err := r.db.Order("ordem").Order("nome").Find(&specialists).Error
	return specialists, err
}

// FindActive returns the specialists shown on the public page.
func (r *SpecialistRepo) FindActive() ([]models.Specialist, error) {
	var specialists []models.Specialist
	err := r.db.Where("ativo = ?", true).Order("ordem").Order("id").Find(&specialists).Error
	return specialists, err
}

func (r *SpecialistRepo) FindByID(id uint) (*models.Specialist, error) {
	var specialist models.Specialist
	err := r.db.First(&specialist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("specialist")
	}
	if err != nil {
		return nil, err
	}
	return &specialist, nil
}

func (r *SpecialistRepo) Add(specialist *models.Specialist) error {
	return r.db.Create(specialist).Error
}

// Update writes every column, so unticking "ativo" or clearing a field sticks.
func (r *SpecialistRepo) Update(specialist *models.Specialist) error {
	return r.db.Select("*").Updates(specialist).Error
}

func (r *SpecialistRepo) Delete(id uint) error {
	res := r.db.Delete(&models.Specialist{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("specialist")
	}
	return nil
}

func (r *SpecialistRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Specialist{}).Count(&n).Error
	return n, err
}
