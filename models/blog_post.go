package models

import (
	"time"
)

const DefaultPostAuthor = "Equipe Honoriel"

// BlogPost is a public blog article managed from the admin panel.
type BlogPost struct {
	ID            uint      `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Title         string    `json:"title" db:"titulo" gorm:"column:titulo;type:varchar(200);not null" validate:"required,max=200"`
	Content       string    `json:"content" db:"conteudo" gorm:"column:conteudo;type:text;not null" validate:"required"`
	Author        string    `json:"author" db:"autor" gorm:"column:autor;type:varchar(100);default:Equipe Honoriel" validate:"max=100"`
	PublishedAt   time.Time `json:"publishedAt" db:"data_publicacao" gorm:"column:data_publicacao;not null;index"`
	FeaturedImage *string   `json:"featuredImage,omitempty" db:"imagem_destaque_path" gorm:"column:imagem_destaque_path;type:varchar(255)"`
}

func (BlogPost) TableName() string { return "post" }
