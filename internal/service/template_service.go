// internal/service/template_service.go
package service

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([^{}\s][^{}]*?)\s*\}\}`)

// FieldSynonyms maps a logical template field to its candidate keys in the
// applicant detail map, in lookup priority order. Scraped profiles arrive
// with inconsistent key names depending on the job board, so every logical
// field lists the aliases seen in production. First match wins.
var FieldSynonyms = map[string][]string{
	"applicant_name": {"applicant_name", "name", "氏名"},
	"name":           {"name", "applicant_name", "氏名"},
	"job_title":      {"job_title", "jobTitle", "求人タイトル", "職種"},
	"company":        {"company", "account_name", "アカウント名", "会社名"},
	"email":          {"email", "メールアドレス"},
	"tel":            {"tel", "phone", "電話番号"},
	"addr":           {"addr", "address", "住所"},
	"school":         {"school", "学校名"},
	"gender":         {"gender", "性別"},
	"birth":          {"birth", "生年月日"},
}

// ResolveField looks a value up under each candidate key in order and
// returns the first non-empty match.
func ResolveField(detail map[string]string, candidates []string) (string, bool) {
	for _, key := range candidates {
		if v, ok := detail[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// RenderTemplate substitutes {{field}} placeholders against the detail map,
// resolving synonyms by priority. Placeholders with no resolvable value are
// left verbatim so a misconfigured template is visible rather than silently
// blanked.
func RenderTemplate(template string, detail map[string]string) string {
	if template == "" || !strings.Contains(template, "{{") {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))

		candidates, ok := FieldSynonyms[token]
		if !ok {
			candidates = []string{token}
		}
		if v, ok := ResolveField(detail, candidates); ok {
			return v
		}
		return match
	})
}
