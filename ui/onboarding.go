package ui

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	"github.com/Bernardstanislas/secretariat/internal/services"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

var mobileFirefox = regexp.MustCompile(`Android.+Firefox/`)

// OnboardingFormHandler renders an empty onboarding form.
func (h *UIHandler) OnboardingFormHandler(w http.ResponseWriter, r *http.Request) {
	form := services.FormInput{Start: h.now().Format(config.DateLayout)}

	data, err := h.onboardingData(r, form)
	if err != nil {
		logging.Error("Failed to load directory for onboarding form", "error", err)
		data["Errors"] = []string{fmt.Sprintf(constants.MsgDirectoryFailed, h.domain)}
		RenderTemplate(w, http.StatusBadGateway, "onboarding.html", data)
		return
	}
	RenderTemplate(w, http.StatusOK, "onboarding.html", data)
}

// OnboardingSubmitHandler publishes the profile, or re-renders the form with
// every error and the submitted values.
func (h *UIHandler) OnboardingSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := services.FormInput{
		FirstName:   r.PostFormValue("firstName"),
		LastName:    r.PostFormValue("lastName"),
		Description: r.PostFormValue("description"),
		Website:     r.PostFormValue("website"),
		Github:      r.PostFormValue("github"),
		Role:        r.PostFormValue("role"),
		Domaine:     r.PostFormValue("domaine"),
		Start:       r.PostFormValue("start"),
		End:         r.PostFormValue("end"),
		Status:      r.PostFormValue("status"),
		Startup:     r.PostFormValue("startup"),
		Employer:    r.PostFormValue("employer"),
		Badge:       r.PostFormValue("badge"),
		Referent:    r.PostFormValue("referent"),
		Email:       r.PostFormValue("email"),
	}

	res, err := h.onboarding.Submit(r.Context(), form)
	if err == nil {
		http.Redirect(w, r, "/onboardingSuccess/"+strconv.Itoa(res.PullRequestNum), http.StatusSeeOther)
		return
	}

	data, dirErr := h.onboardingData(r, form)
	if dirErr != nil {
		logging.Warn("Failed to reload directory for onboarding form", "error", dirErr)
	}
	data["Errors"] = submitErrors(err)
	RenderTemplate(w, http.StatusOK, "onboarding.html", data)
}

func submitErrors(err error) []string {
	var (
		verr   *services.ValidationError
		dupErr *services.DuplicateProfileError
		pubErr *services.PublishError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Messages
	case errors.As(err, &dupErr), errors.As(err, &pubErr):
		logging.Warn("Onboarding publication failed", "error", err, "cause", errors.Unwrap(err))
		return []string{err.Error()}
	default:
		logging.Error("Onboarding failed", "error", err)
		return []string{constants.MsgUnexpectedError}
	}
}

// onboardingData fetches startups and members concurrently. On error the
// returned data is still renderable with empty lists.
func (h *UIHandler) onboardingData(r *http.Request, form services.FormInput) (map[string]interface{}, error) {
	var (
		startups []dtos.Startup
		members  []dtos.Member
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		startups, err = h.directory.Startups(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = h.directory.Members(ctx)
		return err
	})
	err := g.Wait()

	data := pageData(r, "Créer ma fiche")
	data["Form"] = form
	data["Domain"] = h.domain
	data["Domaines"] = constants.Domaines
	data["Statuses"] = constants.Statuses
	data["MinStartDate"] = h.onboarding.MinStart().Format(config.DateLayout)
	data["UseSelectList"] = mobileFirefox.MatchString(r.UserAgent())
	data["Startups"] = startups
	data["Members"] = members
	return data, err
}

// OnboardingSuccessHandler confirms the pull request was opened.
func (h *UIHandler) OnboardingSuccessHandler(w http.ResponseWriter, r *http.Request) {
	prNumber, err := strconv.Atoi(chi.URLParam(r, "prNumber"))
	if err != nil || prNumber <= 0 {
		http.NotFound(w, r)
		return
	}

	data := pageData(r, "Fiche créée")
	data["PRURL"] = h.pullRequests.PullRequestURL(prNumber)
	RenderTemplate(w, http.StatusOK, "onboarding_success.html", data)
}
