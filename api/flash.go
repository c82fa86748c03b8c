package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "honoriel_flash"

const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashDanger  = "danger"
)

type flashMessage struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// setFlash stores a message shown on the next rendered page.
func setFlash(w http.ResponseWriter, category, message string) {
	data, err := json.Marshal([]flashMessage{{Category: category, Message: message}})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes reads pending messages and expires the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var messages []flashMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}
