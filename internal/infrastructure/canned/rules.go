package canned

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/naclports/naclports/internal/application/ports"
)

// Rule IDs, in reporting order.
const (
	RuleDoNotSubmit     = "do-not-submit"
	RuleTabs            = "tabs"
	RuleStrayWhitespace = "stray-whitespace"
	RuleLongLines       = "long-lines"
	RuleTodoOwner       = "todo-owner"
	RuleLicense         = "license"
	RuleSecrets         = "secrets"
)

var ruleOrder = []string{
	RuleDoNotSubmit,
	RuleTabs,
	RuleStrayWhitespace,
	RuleLongLines,
	RuleTodoOwner,
	RuleLicense,
	RuleSecrets,
}

var (
	unownedTodo = regexp.MustCompile(`\bTODO([^(]|$)`)
	urlPattern  = regexp.MustCompile(`[a-z]+://`)
)

var sourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".h": true,
	".py": true, ".sh": true, ".js": true, ".java": true, ".go": true,
}

// javaMaxLineLength is the column limit for Java sources.
const javaMaxLineLength = 100

func isMakefile(p string) bool {
	base := path.Base(p)
	return base == "Makefile" || base == "makefile" || base == "GNUmakefile" || path.Ext(base) == ".mk"
}

// isPatch reports whether p holds a patch against upstream sources, whose
// whitespace and line lengths belong to the upstream project.
func isPatch(p string) bool {
	ext := path.Ext(p)
	return ext == ".patch" || ext == ".diff"
}

func isSource(p string) bool {
	return sourceExtensions[path.Ext(p)]
}

func location(p string, line int) string {
	return fmt.Sprintf("%s:%d", p, line)
}

// lineViolations runs the per-line rules over one file's added lines.
func (c *Checker) lineViolations(f ports.AffectedFile) map[string][]string {
	out := make(map[string][]string)

	limit := c.settings.MaxLineLength
	if path.Ext(f.Path) == ".java" && limit > 0 && limit < javaMaxLineLength {
		limit = javaMaxLineLength
	}
	lintWhitespace := !isPatch(f.Path)

	for _, l := range f.AddedLines {
		loc := location(f.Path, l.Number)

		if strings.Contains(l.Text, "DO NOT "+"SUBMIT") {
			out[RuleDoNotSubmit] = append(out[RuleDoNotSubmit], loc)
		}

		if !lintWhitespace {
			continue
		}

		if strings.Contains(l.Text, "\t") && !isMakefile(f.Path) {
			out[RuleTabs] = append(out[RuleTabs], loc)
		}

		if l.Text != strings.TrimRight(l.Text, " \t") {
			out[RuleStrayWhitespace] = append(out[RuleStrayWhitespace], loc)
		}

		if limit > 0 && utf8.RuneCountInString(l.Text) > limit && !urlPattern.MatchString(l.Text) {
			out[RuleLongLines] = append(out[RuleLongLines],
				fmt.Sprintf("%s, line %d, %d chars", f.Path, l.Number, utf8.RuneCountInString(l.Text)))
		}

		if unownedTodo.MatchString(l.Text) {
			out[RuleTodoOwner] = append(out[RuleTodoOwner], loc)
		}
	}

	return out
}
