package api

import (
	"errors"
	"net/url"
	"testing"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
)

func TestZipGroup(t *testing.T) {
	form := url.Values{
		"idioma_nome[]":  {"Inglês", " ", "Espanhol"},
		"idioma_nivel[]": {"Fluente", "", " Básico "},
	}

	rows, err := zipGroup(form, "idiomas", "idioma_nome[]", "idioma_nivel[]")
	if err != nil {
		t.Fatalf("zipGroup: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v, want the blank row dropped", rows)
	}
	if rows[1]["idioma_nome[]"] != "Espanhol" || rows[1]["idioma_nivel[]"] != "Básico" {
		t.Errorf("row = %v, want trimmed values", rows[1])
	}
}

func TestZipGroupAbsentGroup(t *testing.T) {
	rows, err := zipGroup(url.Values{}, "cursos", "curso_nome[]", "curso_instituicao[]")
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows = %v err = %v, want none", rows, err)
	}
}

func TestZipGroupMismatch(t *testing.T) {
	form := url.Values{
		"form_curso[]":       {"Direito", "Administração"},
		"form_instituicao[]": {"USP"},
	}

	_, err := zipGroup(form, "formacao", "form_curso[]", "form_instituicao[]")
	if !errors.Is(err, errs.ErrMismatchedFieldGroup) {
		t.Fatalf("err = %v, want mismatched group", err)
	}
	if !errs.IsValidation(err) {
		t.Error("mismatch must count as a validation error")
	}
}

func TestParseBackgroundMapsEveryGroup(t *testing.T) {
	form := url.Values{
		"form_curso[]":              {"Direito"},
		"form_instituicao[]":        {"USP"},
		"form_ano_conclusao[]":      {""},
		"form_conclusao_prevista[]": {"2026"},
		"exp_empresa[]":             {"Acme"},
		"exp_cargo[]":               {"Estagiária"},
		"exp_data_inicio[]":         {"03/2024"},
		"exp_data_fim[]":            {"atual"},
		"exp_atividades[]":          {"Triagem de currículos"},
		"curso_nome[]":              {"Excel"},
		"curso_instituicao[]":       {""},
		"curso_carga_horaria[]":     {"20h"},
		"curso_ano_conclusao[]":     {"2023"},
	}

	bg, err := parseBackground(form)
	if err != nil {
		t.Fatalf("parseBackground: %v", err)
	}
	if len(bg.Education) != 1 || bg.Education[0].ExpectedCompletion != "2026" {
		t.Errorf("Education = %+v", bg.Education)
	}
	if len(bg.Experience) != 1 || bg.Experience[0].EndDate != "atual" || bg.Experience[0].Activities != "Triagem de currículos" {
		t.Errorf("Experience = %+v", bg.Experience)
	}
	if len(bg.Languages) != 0 {
		t.Errorf("Languages = %+v, want none", bg.Languages)
	}
	if len(bg.Courses) != 1 || bg.Courses[0].Workload != "20h" {
		t.Errorf("Courses = %+v", bg.Courses)
	}
}
