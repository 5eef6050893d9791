package state

import "strings"

// FooterText returns the footer content: status first, then help.
func FooterText(loading bool, status, helpText string) string {
	status = strings.TrimSpace(status)
	if loading || status == "" {
		return helpText
	}
	if helpText == "" {
		return status
	}
	return status + "\n" + helpText
}
