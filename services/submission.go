package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Upload is a file received from a form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Submission is a parsed résumé form. Profile carries the scalar person
// fields; its ID and child slices are ignored.
type Submission struct {
	Consent    bool
	Profile    models.Person
	Objective  string
	Summary    string
	Background database.Background
	Resume     *Upload
}

type SubmissionResult struct {
	PersonID      uint
	ApplicationID uint
	// Updated is true when the email already belonged to a person.
	Updated    bool
	ResumeFile string
}

type SubmissionService struct {
	db     database.Database
	store  storage.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewSubmissionService(db database.Database, store storage.Store) SubmissionService {
	return SubmissionService{
		db:     db,
		store:  store,
		logger: log.With().Str("serviceName", "submissionService").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// validate runs before any write.
func (s SubmissionService) validate(sub *Submission) error {
	if !sub.Consent {
		return errs.NewConsentRequiredError()
	}

	sub.Profile.Email = strings.TrimSpace(sub.Profile.Email)
	sub.Objective = strings.TrimSpace(sub.Objective)
	if sub.Profile.Email == "" {
		return errs.NewValidationError("email", "Informe um e-mail para enviar sua candidatura.")
	}
	if sub.Objective == "" {
		return errs.NewValidationError("objetivo", "Informe o seu objetivo profissional.")
	}

	if err := ValidateStruct(sub.Profile); err != nil {
		return err
	}
	for _, row := range sub.Background.Education {
		if err := ValidateStruct(row); err != nil {
			return err
		}
	}
	for _, row := range sub.Background.Experience {
		if err := ValidateStruct(row); err != nil {
			return err
		}
	}
	for _, row := range sub.Background.Languages {
		if err := ValidateStruct(row); err != nil {
			return err
		}
	}
	for _, row := range sub.Background.Courses {
		if err := ValidateStruct(row); err != nil {
			return err
		}
	}
	return ValidateStruct(models.Application{Objective: sub.Objective})
}

// Submit creates or refreshes the person identified by email, replaces its
// background collections and records a new application, all in one
// transaction. A résumé with a disallowed extension is ignored.
func (s SubmissionService) Submit(ctx context.Context, sub Submission) (SubmissionResult, error) {
	if err := s.validate(&sub); err != nil {
		return SubmissionResult{}, err
	}

	var (
		result     SubmissionResult
		storedFile string
		now        = s.now()
	)

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		existing, err := tx.PersonRepo().FindByEmail(sub.Profile.Email)
		if err != nil {
			return errs.NewDatabaseError("find", "person", err)
		}

		person := sub.Profile
		person.ID = 0
		person.Applications, person.Education, person.Experience, person.Languages, person.Courses = nil, nil, nil, nil, nil

		if existing != nil {
			person.ID = existing.ID
			if err := tx.PersonRepo().UpdateProfile(&person); err != nil {
				return errs.NewDatabaseError("update", "person", err)
			}
			result.Updated = true
		} else {
			if err := tx.PersonRepo().Add(&person); err != nil {
				return errs.NewDatabaseError("create", "person", err)
			}
		}

		if err := tx.PersonRepo().ReplaceBackground(person.ID, sub.Background); err != nil {
			return errs.NewDatabaseError("replace", "background", err)
		}

		application := models.Application{
			Objective:   sub.Objective,
			Summary:     sub.Summary,
			SubmittedAt: now,
			PersonID:    person.ID,
		}

		if name, ok := s.resumeName(sub.Resume, person.ID, now); ok {
			if err := s.store.Save(ctx, name, sub.Resume.Content); err != nil {
				return errs.NewStorageError("save", name, err)
			}
			storedFile = name
			application.ResumeFile = &name
		}

		if err := tx.ApplicationRepo().Add(&application); err != nil {
			return errs.NewDatabaseError("create", "application", err)
		}

		result.PersonID = person.ID
		result.ApplicationID = application.ID
		result.ResumeFile = storedFile
		return nil
	})
	if err != nil {
		if storedFile != "" {
			s.logger.Warn().Str("file", storedFile).Msg("résumé stored but submission rolled back, file is orphaned")
		}
		txErr := errs.NewTransactionError("submit application", err)
		s.logger.Error().Str("email", sub.Profile.Email).Msg(txErr.GetFullError())
		return SubmissionResult{}, txErr
	}

	s.logger.Info().
		Uint("personId", result.PersonID).
		Uint("applicationId", result.ApplicationID).
		Bool("updated", result.Updated).
		Bool("resume", result.ResumeFile != "").
		Msg("application submitted")
	return result, nil
}

// resumeName decides whether an upload is kept and under which name.
func (s SubmissionService) resumeName(upload *Upload, personID uint, now time.Time) (string, bool) {
	if upload == nil || upload.Content == nil || upload.Filename == "" {
		return "", false
	}
	if !storage.Allowed(upload.Filename, storage.ResumeExtensions) {
		s.logger.Info().Str("filename", upload.Filename).Msg("résumé ignored, extension not allowed")
		return "", false
	}
	name, err := storage.BuildName(storage.PrefixResume, personID, now, upload.Filename)
	if err != nil {
		s.logger.Info().Err(err).Msg("résumé ignored, unusable filename")
		return "", false
	}
	return name, true
}
