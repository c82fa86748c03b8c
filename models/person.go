package models

// Person is a candidate profile. Email is the natural key used to decide
// between creating a new profile and refreshing an existing one.
type Person struct {
	ID              uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	FullName        string `json:"fullName" db:"nome_completo" gorm:"column:nome_completo;type:varchar(150);not null" validate:"max=150"`
	District        string `json:"district,omitempty" db:"bairro" gorm:"column:bairro;type:varchar(100)" validate:"max=100"`
	City            string `json:"city,omitempty" db:"cidade" gorm:"column:cidade;type:varchar(100)" validate:"max=100"`
	State           string `json:"state,omitempty" db:"uf" gorm:"column:uf;type:varchar(2)" validate:"max=2"`
	Phone           string `json:"phone,omitempty" db:"telefone1" gorm:"column:telefone1;type:varchar(20)" validate:"max=20"`
	Email           string `json:"email" db:"email" gorm:"column:email;type:varchar(120);not null;uniqueIndex" validate:"required,max=120"`
	LinkedInURL     string `json:"linkedinUrl,omitempty" db:"linkedin_url" gorm:"column:linkedin_url;type:varchar(200)" validate:"max=200"`
	TechnicalSkills string `json:"technicalSkills,omitempty" db:"competencias_tecnicas" gorm:"column:competencias_tecnicas;type:text"`

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
	Education    []Education   `json:"education,omitempty" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
	Experience   []Experience  `json:"experience,omitempty" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
	Languages    []Language    `json:"languages,omitempty" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
	Courses      []Course      `json:"courses,omitempty" gorm:"foreignKey:PersonID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Person) TableName() string { return "pessoa" }

// ProfileColumns are the scalar columns overwritten when an existing person
// submits the form again.
var ProfileColumns = []string{
	"nome_completo",
	"bairro",
	"cidade",
	"uf",
	"telefone1",
	"linkedin_url",
	"competencias_tecnicas",
}

// Education is a formal degree listed on a profile.
type Education struct {
	ID                 uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Course             string `json:"course" db:"curso" gorm:"column:curso;type:varchar(150);not null" validate:"required,max=150"`
	Institution        string `json:"institution" db:"instituicao" gorm:"column:instituicao;type:varchar(150);not null" validate:"required,max=150"`
	CompletionYear     string `json:"completionYear,omitempty" db:"ano_conclusao" gorm:"column:ano_conclusao;type:varchar(10)" validate:"max=10"`
	ExpectedCompletion string `json:"expectedCompletion,omitempty" db:"conclusao_prevista" gorm:"column:conclusao_prevista;type:varchar(10)" validate:"max=10"`
	PersonID           uint   `json:"personId" db:"pessoa_id" gorm:"column:pessoa_id;not null;index"`
}

func (Education) TableName() string { return "formacao" }

type Experience struct {
	ID         uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Company    string `json:"company" db:"empresa" gorm:"column:empresa;type:varchar(150);not null" validate:"required,max=150"`
	Role       string `json:"role" db:"cargo" gorm:"column:cargo;type:varchar(150);not null" validate:"required,max=150"`
	StartDate  string `json:"startDate,omitempty" db:"data_inicio" gorm:"column:data_inicio;type:varchar(20)" validate:"max=20"`
	EndDate    string `json:"endDate,omitempty" db:"data_fim" gorm:"column:data_fim;type:varchar(20)" validate:"max=20"`
	Activities string `json:"activities,omitempty" db:"atividades" gorm:"column:atividades;type:text"`
	PersonID   uint   `json:"personId" db:"pessoa_id" gorm:"column:pessoa_id;not null;index"`
}

func (Experience) TableName() string { return "experiencia" }

type Language struct {
	ID       uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Name     string `json:"name" db:"nome" gorm:"column:nome;type:varchar(50);not null" validate:"required,max=50"`
	Level    string `json:"level" db:"nivel" gorm:"column:nivel;type:varchar(50);not null" validate:"required,max=50"`
	PersonID uint   `json:"personId" db:"pessoa_id" gorm:"column:pessoa_id;not null;index"`
}

func (Language) TableName() string { return "idioma" }

// Course is a complementary (non-degree) course.
type Course struct {
	ID             uint   `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Name           string `json:"name" db:"nome" gorm:"column:nome;type:varchar(150);not null" validate:"required,max=150"`
	Institution    string `json:"institution,omitempty" db:"instituicao" gorm:"column:instituicao;type:varchar(150)" validate:"max=150"`
	Workload       string `json:"workload,omitempty" db:"carga_horaria" gorm:"column:carga_horaria;type:varchar(20)" validate:"max=20"`
	CompletionYear string `json:"completionYear,omitempty" db:"ano_conclusao" gorm:"column:ano_conclusao;type:varchar(10)" validate:"max=10"`
	PersonID       uint   `json:"personId" db:"pessoa_id" gorm:"column:pessoa_id;not null;index"`
}

func (Course) TableName() string { return "curso" }
