package services

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/constants"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FormInput is the raw onboarding form as posted.
type FormInput struct {
	FirstName   string
	LastName    string
	Description string
	Website     string
	Github      string
	Role        string
	Domaine     string
	Start       string
	End         string
	Status      string
	Startup     string
	Employer    string
	Badge       string
	Referent    string
	Email       string
}

// FormSubmission is a validated onboarding form.
type FormSubmission struct {
	FirstName   string
	LastName    string
	Description string
	Website     string
	Github      string
	Role        string
	Domaine     string
	Start       time.Time
	End         time.Time
	Status      string
	Startup     string
	Employer    string
	Badge       string
	Referent    string
	Email       string
}

// Fullname is "First Last".
func (s *FormSubmission) Fullname() string {
	return s.FirstName + " " + s.LastName
}

type validationContext struct {
	errors []string
}

func (v *validationContext) AddError(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validationContext) required(label string, value string) string {
	if value == "" {
		v.AddError(constants.MsgRequiredField, label)
	}
	return value
}

func (v *validationContext) email(label string, value string) string {
	if value == "" {
		v.AddError(constants.MsgRequiredField, label)
		return ""
	}
	if !emailRegex.MatchString(value) {
		v.AddError(constants.MsgInvalidEmail, label)
		return ""
	}
	return value
}

func (v *validationContext) domaine(label string, value string) string {
	if value == "" {
		v.AddError(constants.MsgRequiredField, label)
		return ""
	}
	if !slices.Contains(constants.Domaines, value) {
		v.AddError(constants.MsgInvalidDomaine, label)
		return ""
	}
	return value
}

func (v *validationContext) url(label string, value string) string {
	if value != "" && !strings.HasPrefix(value, "http") {
		v.AddError(constants.MsgInvalidURL, label)
		return ""
	}
	return value
}

func (v *validationContext) githubUsername(label string, value string) string {
	if value != "" && !IsValidGithubUsername(value) {
		v.AddError(constants.MsgGithubUsername, label)
		return ""
	}
	return value
}

// date parses a YYYY-MM-DD value. An empty value was already reported as missing.
func (v *validationContext) date(label string, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(config.DateLayout, value)
	if err != nil {
		v.AddError(constants.MsgInvalidDate, label)
		return time.Time{}, false
	}
	return t, true
}

// ValidateForm checks every rule and reports all violations at once.
// It returns either a submission or a *ValidationError, never both.
func ValidateForm(in FormInput, minStart time.Time) (*FormSubmission, error) {
	v := &validationContext{}
	trim := strings.TrimSpace

	sub := &FormSubmission{
		FirstName:   v.required(constants.LabelFirstName, trim(in.FirstName)),
		LastName:    v.required(constants.LabelLastName, trim(in.LastName)),
		Description: trim(in.Description),
		Role:        v.required(constants.LabelRole, trim(in.Role)),
		Status:      v.required(constants.LabelStatus, trim(in.Status)),
		Startup:     trim(in.Startup),
		Employer:    trim(in.Employer),
		Badge:       trim(in.Badge),
		Referent:    v.required(constants.LabelReferent, trim(in.Referent)),
	}
	start := v.required(constants.LabelStart, trim(in.Start))
	end := v.required(constants.LabelEnd, trim(in.End))

	sub.Email = v.email(constants.LabelEmail, trim(in.Email))
	sub.Domaine = v.domaine(constants.LabelDomaine, trim(in.Domaine))
	sub.Website = v.url(constants.LabelWebsite, trim(in.Website))
	sub.Github = v.githubUsername(constants.LabelGithub, trim(in.Github))

	startDate, startOK := v.date(constants.LabelStartDate, start)
	endDate, endOK := v.date(constants.LabelEndDate, end)
	if startOK && endOK {
		if startDate.Before(minStart) {
			v.AddError(constants.MsgStartTooEarly, minStart.Format(config.DateLayout))
		}
		if endDate.Before(startDate) {
			v.AddError(constants.MsgEndBeforeStart)
		}
	}
	sub.Start, sub.End = startDate, endDate

	if len(v.errors) > 0 {
		return nil, &ValidationError{Messages: slices.Clone(v.errors)}
	}
	return sub, nil
}

// IsValidGithubUsername accepts a bare GitHub login: 1 to 39 ASCII letters,
// digits or single hyphens, not starting or ending with a hyphen.
func IsValidGithubUsername(s string) bool {
	if len(s) == 0 || len(s) > 39 {
		return false
	}
	if s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
