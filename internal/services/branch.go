package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Characters git refuses or that are awkward in ref names.
var refReplacer = strings.NewReplacer(
	" ", "-",
	".", "-",
	`\`, "-",
	"~", "-",
	"^", "-",
	":", "-",
	"?", "-",
	"*", "-",
	"[", "-",
)

// BranchName returns "author-<sanitized username>-<6 hex chars>".
func BranchName(username string) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate branch suffix: %w", err)
	}
	return "author-" + refReplacer.Replace(username) + "-" + hex.EncodeToString(suffix), nil
}
