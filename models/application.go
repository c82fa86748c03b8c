package models

import "time"

// Application is one submission of the résumé form. Every submission adds a
// row; older applications of the same person are kept.
type Application struct {
	ID          uint      `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Objective   string    `json:"objective" db:"vaga_objetivo" gorm:"column:vaga_objetivo;type:varchar(255);not null" validate:"required,max=255"`
	Summary     string    `json:"summary,omitempty" db:"resumo_profissional" gorm:"column:resumo_profissional;type:text"`
	ResumeFile  *string   `json:"resumeFile,omitempty" db:"curriculo_pdf_path" gorm:"column:curriculo_pdf_path;type:varchar(255)"`
	SubmittedAt time.Time `json:"submittedAt" db:"data_candidatura" gorm:"column:data_candidatura;not null;index"`
	PersonID    uint      `json:"personId" db:"pessoa_id" gorm:"column:pessoa_id;not null;index"`

	Person *Person `json:"person,omitempty" gorm:"foreignKey:PersonID;references:ID"`
}

func (Application) TableName() string { return "candidatura" }
