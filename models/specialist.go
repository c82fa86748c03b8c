package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const DefaultSpecialistArea = "outro"

// Specialist is a partner professional shown on the companies page.
type Specialist struct {
	ID            uint    `json:"id" db:"id" gorm:"column:id;primaryKey"`
	Name          string  `json:"name" db:"nome" gorm:"column:nome;type:varchar(150);not null" validate:"required,max=150"`
	Title         string  `json:"title" db:"titulo" gorm:"column:titulo;type:varchar(150);not null" validate:"required,max=150"`
	PhotoPath     *string `json:"photoPath,omitempty" db:"foto_path" gorm:"column:foto_path;type:varchar(255)"`
	BioIntro      string  `json:"bioIntro,omitempty" db:"bio_intro" gorm:"column:bio_intro;type:text"`
	BioListTitle  string  `json:"bioListTitle,omitempty" db:"bio_lista_titulo" gorm:"column:bio_lista_titulo;type:varchar(255)" validate:"max=255"`
	BioItems      BioList `json:"bioItems,omitempty" db:"bio_lista_itens" gorm:"column:bio_lista_itens;type:text"`
	BioConclusion string  `json:"bioConclusion,omitempty" db:"bio_conclusao" gorm:"column:bio_conclusao;type:text"`
	WhatsApp      string  `json:"whatsapp,omitempty" db:"contato_whatsapp" gorm:"column:contato_whatsapp;type:varchar(50)" validate:"max=50"`
	Email         string  `json:"email,omitempty" db:"contato_email" gorm:"column:contato_email;type:varchar(150)" validate:"max=150"`
	LinkedIn      string  `json:"linkedin,omitempty" db:"contato_linkedin" gorm:"column:contato_linkedin;type:varchar(255)" validate:"max=255"`
	Instagram     string  `json:"instagram,omitempty" db:"contato_instagram" gorm:"column:contato_instagram;type:varchar(100)" validate:"max=100"`
	ExtraContact  string  `json:"extraContact,omitempty" db:"contato_extra" gorm:"column:contato_extra;type:varchar(150)" validate:"max=150"`
	Active        bool    `json:"active" db:"ativo" gorm:"column:ativo;not null"`
	Order         int     `json:"order" db:"ordem" gorm:"column:ordem;not null"`
	Area          string  `json:"area" db:"area" gorm:"column:area;type:varchar(50);not null;default:outro" validate:"required,max=50"`
}

func (Specialist) TableName() string { return "especialista" }

// BioList is stored as plain text with one item per line.
type BioList []string

func (l *BioList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = nil
	case string:
		*l = SplitBioItems(v)
	case []byte:
		*l = SplitBioItems(string(v))
	default:
		return fmt.Errorf("bio list: unsupported type %T", value)
	}
	return nil
}

func (l BioList) Value() (driver.Value, error) {
	return strings.Join(l, "\n"), nil
}

// BioItemsText joins the bio list back into the one-item-per-line form used
// by the admin textarea.
func (s Specialist) BioItemsText() string {
	return strings.Join(s.BioItems, "\n")
}

// SplitBioItems turns textarea input into list items, skipping blank lines.
func SplitBioItems(text string) []string {
	var items []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

type SpecialistArea struct {
	Key   string
	Label string
	Icon  string
}

// SpecialistAreas is the fixed set of areas, in display order.
var SpecialistAreas = []SpecialistArea{
	{Key: "psicologia", Label: "Psicologia", Icon: "fa-solid fa-brain"},
	{Key: "direito", Label: "Direito", Icon: "fa-solid fa-gavel"},
	{Key: "desenvolvimento", Label: "Desenvolvimento", Icon: "fa-solid fa-code"},
	{Key: "medicina", Label: "Medicina", Icon: "fa-solid fa-user-doctor"},
	{Key: "nutricao", Label: "Nutrição", Icon: "fa-solid fa-apple-whole"},
	{Key: "financeiro", Label: "Finança", Icon: "fa-solid fa-money-bill-trend-up"},
	{Key: "contabilidade", Label: "Contabilidade", Icon: "fa-solid fa-calculator"},
	{Key: DefaultSpecialistArea, Label: "Outro", Icon: "fa-solid fa-handshake"},
}

func lookupArea(key string) (SpecialistArea, bool) {
	for _, a := range SpecialistAreas {
		if a.Key == key {
			return a, true
		}
	}
	return SpecialistArea{}, false
}

// NormalizeArea maps unknown or empty keys to the default area.
func NormalizeArea(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := lookupArea(key); ok {
		return key
	}
	return DefaultSpecialistArea
}

// AreaIcon returns the icon class for an area, falling back to the default
// area's icon.
func AreaIcon(key string) string {
	if a, ok := lookupArea(key); ok {
		return a.Icon
	}
	a, _ := lookupArea(DefaultSpecialistArea)
	return a.Icon
}

func AreaLabel(key string) string {
	if a, ok := lookupArea(key); ok {
		return a.Label
	}
	a, _ := lookupArea(DefaultSpecialistArea)
	return a.Label
}
