package api

import (
	"github.com/Kirah-Dev/honoriel-solucoes-site/config"
	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
)

// Dependencies are the collaborators main builds once and hands to the router.
type Dependencies struct {
	Database database.Database
	Store    storage.Store
	Notifier services.Notifier
	Settings config.Settings
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	publicHandler     publicHandler
	contactHandler    contactHandler
	submissionHandler submissionHandler
	authHandler       authHandler
	candidateHandler  candidateHandler
	specialistHandler specialistHandler
	blogPostHandler   blogPostHandler
	uploadHandler     uploadHandler
	healthHandler     healthHandler
}
