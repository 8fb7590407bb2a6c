package pipeline

import (
	"strings"

	"github.com/adurasov/nutricode/internal/refdata"
)

// filterReason reports why a title is out of scope, or "" when it should
// be processed. A keyword only filters when none of its exception terms
// appear alongside it.
func filterReason(title string, keywords []refdata.FilterKeyword) string {
	upper := strings.ToUpper(title)
	for _, kw := range keywords {
		if !strings.Contains(upper, strings.ToUpper(kw.Keyword)) {
			continue
		}
		excepted := false
		for _, ex := range kw.Exceptions {
			if strings.Contains(upper, strings.ToUpper(ex)) {
				excepted = true
				break
			}
		}
		if excepted {
			continue
		}
		reason := kw.Keyword
		if kw.Category != "" {
			reason += " (" + kw.Category + ")"
		}
		return reason
	}
	return ""
}
