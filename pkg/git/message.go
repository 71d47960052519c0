package git

import (
	"strings"
)

// Commit types used by the notes repository.
const (
	CommitTypeChore = "chore"
	CommitTypeFix   = "fix"
)

// Footer marks commits written by timednotes.
const Footer = "Saved-by: timednotes"

// FormatMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Saved-by: timednotes
func FormatMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)

	return sb.String()
}
