package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"gopkg.in/yaml.v3"
)

type authorMission struct {
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Status   string `yaml:"status"`
	Employer string `yaml:"employer,omitempty"`
}

type authorFrontMatter struct {
	Fullname string          `yaml:"fullname"`
	Role     string          `yaml:"role"`
	Domaine  string          `yaml:"domaine"`
	Github   string          `yaml:"github,omitempty"`
	Link     string          `yaml:"link,omitempty"`
	Missions []authorMission `yaml:"missions"`
	Startups []string        `yaml:"startups,omitempty"`
	Badges   []string        `yaml:"badges,omitempty"`
}

// RenderAuthorProfile renders the markdown profile committed to the content repository.
func RenderAuthorProfile(sub *FormSubmission) (string, error) {
	fm := authorFrontMatter{
		Fullname: sub.Fullname(),
		Role:     sub.Role,
		Domaine:  sub.Domaine,
		Github:   sub.Github,
		Link:     sub.Website,
		Missions: []authorMission{{
			Start:    sub.Start.Format(config.DateLayout),
			End:      sub.End.Format(config.DateLayout),
			Status:   sub.Status,
			Employer: sub.Employer,
		}},
	}
	if sub.Startup != "" {
		fm.Startups = []string{sub.Startup}
	}
	if sub.Badge != "" {
		fm.Badges = []string{sub.Badge}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("render author front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render author front matter: %w", err)
	}

	var out strings.Builder
	out.WriteString("---\n")
	out.WriteString(buf.String())
	out.WriteString("---\n")
	if sub.Description != "" {
		out.WriteString("\n")
		out.WriteString(sub.Description)
		out.WriteString("\n")
	}
	return out.String(), nil
}
