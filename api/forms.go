package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
)

const multipartMemory = 8 << 20

// parseForm parses urlencoded or multipart bodies up to maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errs.NewMaxBodySizeExceededError(maxBytes)
	}
	return errs.NewMalformedPayloadError("form", err)
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(formValue(r, key))
	if err != nil {
		return 0
	}
	return n
}

// formFile returns the uploaded file under key, or nil when none was sent.
func formFile(r *http.Request, key string) (*services.Upload, multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errs.NewMalformedPayloadError("file", err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}
	return &services.Upload{Filename: header.Filename, Content: file}, file, nil
}

// zipGroup turns parallel form arrays into rows keyed by field name. Every
// field of the group must have the same number of values; rows whose fields
// are all blank are dropped.
func zipGroup(form url.Values, group string, fields ...string) ([]map[string]string, error) {
	lengths := make(map[string]int, len(fields))
	n := -1
	mismatch := false
	for _, field := range fields {
		l := len(form[field])
		lengths[field] = l
		if n == -1 {
			n = l
		} else if l != n {
			mismatch = true
		}
	}
	if mismatch {
		return nil, errs.NewMismatchedFieldGroupError(group, lengths)
	}

	var rows []map[string]string
	for i := 0; i < n; i++ {
		row := make(map[string]string, len(fields))
		blank := true
		for _, field := range fields {
			v := strings.TrimSpace(form[field][i])
			row[field] = v
			if v != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// parseBackground reads the four repeated groups of the résumé form.
func parseBackground(form url.Values) (database.Background, error) {
	var bg database.Background

	rows, err := zipGroup(form, "formacao", "form_curso[]", "form_instituicao[]", "form_ano_conclusao[]", "form_conclusao_prevista[]")
	if err != nil {
		return bg, err
	}
	for _, row := range rows {
		bg.Education = append(bg.Education, models.Education{
			Course:             row["form_curso[]"],
			Institution:        row["form_instituicao[]"],
			CompletionYear:     row["form_ano_conclusao[]"],
			ExpectedCompletion: row["form_conclusao_prevista[]"],
		})
	}

	rows, err = zipGroup(form, "experiencia", "exp_empresa[]", "exp_cargo[]", "exp_data_inicio[]", "exp_data_fim[]", "exp_atividades[]")
	if err != nil {
		return bg, err
	}
	for _, row := range rows {
		bg.Experience = append(bg.Experience, models.Experience{
			Company:    row["exp_empresa[]"],
			Role:       row["exp_cargo[]"],
			StartDate:  row["exp_data_inicio[]"],
			EndDate:    row["exp_data_fim[]"],
			Activities: row["exp_atividades[]"],
		})
	}

	rows, err = zipGroup(form, "idiomas", "idioma_nome[]", "idioma_nivel[]")
	if err != nil {
		return bg, err
	}
	for _, row := range rows {
		bg.Languages = append(bg.Languages, models.Language{
			Name:  row["idioma_nome[]"],
			Level: row["idioma_nivel[]"],
		})
	}

	rows, err = zipGroup(form, "cursos", "curso_nome[]", "curso_instituicao[]", "curso_carga_horaria[]", "curso_ano_conclusao[]")
	if err != nil {
		return bg, err
	}
	for _, row := range rows {
		bg.Courses = append(bg.Courses, models.Course{
			Name:           row["curso_nome[]"],
			Institution:    row["curso_instituicao[]"],
			Workload:       row["curso_carga_horaria[]"],
			CompletionYear: row["curso_ano_conclusao[]"],
		})
	}

	return bg, nil
}

// parseSubmission maps a parsed résumé form to a service submission. The
// returned file, if any, must be closed by the caller.
func parseSubmission(r *http.Request) (services.Submission, multipart.File, error) {
	bg, err := parseBackground(r.PostForm)
	if err != nil {
		return services.Submission{}, nil, err
	}

	sub := services.Submission{
		Consent: r.PostForm.Has("consent"),
		Profile: models.Person{
			FullName:        formValue(r, "nome_completo"),
			District:        formValue(r, "bairro"),
			City:            formValue(r, "cidade"),
			State:           strings.ToUpper(formValue(r, "uf")),
			Phone:           formValue(r, "telefone1"),
			Email:           formValue(r, "email"),
			LinkedInURL:     formValue(r, "linkedin_url"),
			TechnicalSkills: formValue(r, "competencias_tecnicas"),
		},
		Objective:  formValue(r, "objetivo"),
		Summary:    formValue(r, "resumo_profissional"),
		Background: bg,
	}

	upload, file, err := formFile(r, "curriculo_pdf")
	if err != nil {
		return services.Submission{}, nil, err
	}
	sub.Resume = upload
	return sub, file, nil
}
