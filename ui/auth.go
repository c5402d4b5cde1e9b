package ui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Bernardstanislas/secretariat/internal/auth"
	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/services"
)

func (h *UIHandler) loginPage(r *http.Request, email string) map[string]interface{} {
	data := pageData(r, "Connexion")
	data["Domain"] = h.domain
	data["Email"] = email
	return data
}

// LoginFormHandler renders the login form, or sends members already logged in to their account.
func (h *UIHandler) LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	if auth.GetUsername(r.Context()) != "" {
		http.Redirect(w, r, "/account", http.StatusSeeOther)
		return
	}
	RenderTemplate(w, http.StatusOK, "login.html", h.loginPage(r, ""))
}

// LoginSubmitHandler emails a login link. The answer does not depend on
// whether the address belongs to a member, nor on failures while issuing
// the link, which only reach the logs.
func (h *UIHandler) LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("emailInput")
	data := h.loginPage(r, email)

	err := h.login.Issue(r.Context(), email)
	if errors.Is(err, services.ErrInvalidEmail) {
		data["Errors"] = []string{constants.MsgLoginInvalidEmail}
		RenderTemplate(w, http.StatusBadRequest, "login.html", data)
		return
	}
	if err != nil {
		logging.Error("Failed to issue login token", "error", err)
	}

	data["Messages"] = []string{fmt.Sprintf(constants.MsgLoginLinkSent, email, services.FormatDuration(h.login.TTL()))}
	data["Email"] = ""
	RenderTemplate(w, http.StatusOK, "login.html", data)
}

// TokenLoginHandler redeems ?token= and opens a session. Unknown, used and
// expired tokens all get the same answer and no cookie.
func (h *UIHandler) TokenLoginHandler(w http.ResponseWriter, r *http.Request) {
	username, ok, err := h.login.Redeem(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		logging.Error("Failed to redeem login token", "error", err)
		data := h.loginPage(r, "")
		data["Errors"] = []string{constants.MsgUnexpectedError}
		RenderTemplate(w, http.StatusInternalServerError, "login.html", data)
		return
	}
	if !ok {
		data := h.loginPage(r, "")
		data["Errors"] = []string{constants.MsgLoginLinkExpired}
		RenderTemplate(w, http.StatusUnauthorized, "login.html", data)
		return
	}

	if err := h.sessions.SetCookie(w, username); err != nil {
		logging.Error("Failed to create session", "username", username, "error", err)
		http.Error(w, constants.MsgUnexpectedError, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

// AccountHandler shows the logged-in member.
func (h *UIHandler) AccountHandler(w http.ResponseWriter, r *http.Request) {
	username := auth.GetUsername(r.Context())
	data := pageData(r, "Mon compte")

	member, err := h.directory.Member(r.Context(), username)
	if err != nil {
		logging.Warn("Member not found for account page", "username", username, "error", err)
		member = nil
	}
	data["Member"] = member
	RenderTemplate(w, http.StatusOK, "account.html", data)
}

// LogoutHandler clears the session cookie.
func (h *UIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
