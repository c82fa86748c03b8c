package database

import (
	"errors"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns all blog posts, newest first
func (r *BlogPostRepo) FindAll() ([]models.BlogPost, error) {
	var blogPosts []models.BlogPost
	err := r.db.Order("data_publicacao DESC").Order("id DESC").Find(&blogPosts).Error
	return blogPosts, err
}

// Recent returns the limit most recent posts
func (r *BlogPostRepo) Recent(limit int) ([]models.BlogPost, error) {
	var blogPosts []models.BlogPost
	err := r.db.Order("data_publicacao DESC").Order("id DESC").Limit(limit).Find(&blogPosts).Error
	return blogPosts, err
}

// Page returns one page (1-based) of posts, newest first, and the total count.
func (r *BlogPostRepo) Page(page, perPage int) ([]models.BlogPost, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.Model(&models.BlogPost{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Pages past the last one are empty.
	if int64(page-1) >= (total+int64(perPage)-1)/int64(perPage) {
		return nil, total, nil
	}

	var blogPosts []models.BlogPost
	err := r.db.Order("data_publicacao DESC").Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&blogPosts).Error
	return blogPosts, total, err
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(id uint) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.First(&blogPost, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("blog post")
	}
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(blogPost *models.BlogPost) error {
	return r.db.Create(blogPost).Error
}

// Update updates an existing blog post in the database
func (r *BlogPostRepo) Update(blogPost *models.BlogPost) error {
	return r.db.Save(blogPost).Error
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(id uint) error {
	res := r.db.Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("blog post")
	}
	return nil
}

func (r *BlogPostRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.BlogPost{}).Count(&n).Error
	return n, err
}
