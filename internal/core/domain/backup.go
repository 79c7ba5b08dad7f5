package domain

import (
	"regexp"
	"strings"
)

// BackupKind names a snapshot slot.
type BackupKind string

const (
	// BackupOriginal is written once, before the first modification.
	BackupOriginal BackupKind = "original"
	// BackupLastRun is overwritten before every modifying run.
	BackupLastRun BackupKind = "lastRun"
)

// RollbackReport lists the outcome of restoring a snapshot.
type RollbackReport struct {
	Kind     BackupKind
	Restored []string
	Failed   map[string]error
}

// FileReplacement rewrites the file at Path. For every match of Regex, the
// first submatch is looked up in Replacements; the rest of the match is kept.
type FileReplacement struct {
	Path         string
	Regex        *regexp.Regexp
	Replacements map[string]string
}

// Apply returns content with all known keys replaced.
func (r FileReplacement) Apply(content string) string {
	var b strings.Builder
	last, changed := 0, false
	for _, loc := range r.Regex.FindAllStringSubmatchIndex(content, -1) {
		start, end := loc[0], loc[1]
		if len(loc) >= 4 && loc[2] >= 0 {
			start, end = loc[2], loc[3]
		}
		v, ok := r.Replacements[content[start:end]]
		if !ok {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(v)
		last, changed = end, true
	}
	if !changed {
		return content
	}
	b.WriteString(content[last:])
	return b.String()
}
