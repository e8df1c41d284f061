package models

import (
	"regexp"
	"strings"
)

// invalidModelID is the deliberately bogus model identifier used to make a
// CLI tool print its usage text enumerating the valid choices.
const invalidModelID = "definitely-not-a-model"

// enumerationPattern locates the part of a CLI usage/error message that
// enumerates valid model names, e.g.
//
//	Error: unknown model 'x'. Available models: sonnet, opus, haiku
//	Invalid model. Valid models are: gemini-2.5-pro, gemini-2.5-flash
var enumerationPattern = regexp.MustCompile(`(?i)\b(?:available|valid|supported|known)\s+models?(?:\s+(?:are|include))?\s*[:=]\s*(.*)`)

// modelToken matches a plausible model identifier inside an enumeration.
var modelToken = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ParseEnumeration extracts model records from the usage/error text a CLI
// tool prints when given an invalid model id. Two layouts are recognised:
// an inline comma-separated list on the header line, and a bullet list on
// the lines following the header. It returns nil when no enumeration
// pattern is found, which callers must treat exactly like a fetch failure.
func ParseEnumeration(text string) []Model {
	lines := strings.Split(text, "\n")
	headerIdx := -1
	var inline string
	for i, line := range lines {
		if match := enumerationPattern.FindStringSubmatch(line); match != nil {
			headerIdx = i
			inline = match[1]
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	var models []Model
	for _, token := range splitList(inline) {
		models = append(models, Model{ID: token, Label: token})
	}

	// No inline list: the enumeration continues as a bullet list below.
	if len(models) == 0 {
		for _, line := range lines[headerIdx+1:] {
			trimmed := strings.TrimSpace(line)
			isBullet := strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "•")
			if !isBullet {
				if len(models) > 0 || trimmed != "" {
					break
				}
				continue
			}
			item := strings.TrimSpace(strings.TrimLeft(trimmed, "-*• \t"))
			// Bullet items may carry a description after the name.
			if fields := splitList(item); len(fields) > 0 {
				models = append(models, Model{ID: fields[0], Label: fields[0]})
			}
		}
	}

	return dedupe(models)
}

// splitList tokenises a comma-separated enumeration, dropping quoting and
// the connective words commonly found inside usage text so a list like
// "sonnet, opus or haiku" yields only the model names.
func splitList(s string) []string {
	var out []string
	for _, raw := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		token := strings.Trim(raw, `'"`+"`().")
		if token == "" || !modelToken.MatchString(token) || isProseWord(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

func isProseWord(token string) bool {
	switch strings.ToLower(token) {
	case "or", "and", "the", "one", "of", "a", "an", "are", "is", "use", "model", "models", "following":
		return true
	}
	return false
}
