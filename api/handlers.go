package api

import (
	"strconv"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, sessions sessionManager, auth authMiddleware, renderer *renderer, startupTime time.Time) *routeHandlers {
	db := deps.Database
	maxBytes := deps.Settings.UploadMaxBytes

	return &routeHandlers{
		publicHandler:     newPublicHandler(db.BlogPostRepo(), db.SpecialistRepo(), renderer),
		contactHandler:    newContactHandler(deps.Notifier, renderer),
		submissionHandler: newSubmissionHandler(services.NewSubmissionService(db, deps.Store), maxBytes, renderer),
		authHandler:       newAuthHandler(services.NewAccountService(db), sessions, db, renderer),
		candidateHandler:  newCandidateHandler(db, deps.Store, renderer),
		specialistHandler: newSpecialistHandler(db.SpecialistRepo(), deps.Store, maxBytes, renderer),
		blogPostHandler:   newBlogPostHandler(db.BlogPostRepo(), deps.Store, maxBytes, renderer),
		uploadHandler:     newUploadHandler(deps.Store, auth, renderer),
		healthHandler:     newHealthHandler(db, startupTime, renderer),
	}
}

func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
