package proposal

import (
	"strings"
	"unicode/utf8"
)

// MaxAbbreviationLength mirrors the input width of the abbreviation field.
const MaxAbbreviationLength = 5

// SanitizeAbbreviation keeps only ASCII letters, in order, and truncates the
// result to MaxAbbreviationLength. "E1i!se" becomes "Eise".
func SanitizeAbbreviation(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			if b.Len() == MaxAbbreviationLength {
				break
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Soft length hints shown next to the narrative fields. Exceeding the warn
// threshold is advisory and never a validation error.
type SoftLimit struct {
	Target int
	Warn   int
}

var (
	OverviewLimit        = SoftLimit{Target: 500, Warn: 550}
	ExpectedEffectsLimit = SoftLimit{Target: 500, Warn: 550}
	SessionOverviewLimit = SoftLimit{Target: 400, Warn: 450}
)

// CharCount counts characters the way the form counter does: one per rune.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// Exceeded reports whether text is past the warn threshold.
func (l SoftLimit) Exceeded(text string) bool {
	return CharCount(text) > l.Warn
}

var activityPlaceholders = map[string]string{
	"4月":  "例：キックオフミーティング（オンライン），運営委員会",
	"5月":  "例：春季研究会にて企画セッション実施",
	"6月":  "例：運営委員会，研究テーマの検討",
	"7月":  "例：夏季研究会にて企画セッション実施",
	"9月":  "例：全国大会にて企画セッション実施",
	"11月": "例：秋季研究会にて企画セッション実施",
	"12月": "例：運営委員会，年度活動の振り返り",
	"1月":  "例：冬季研究会にて企画セッション実施",
	"3月":  "例：特別研究会にて企画セッション実施，年度末総括",
}

// ActivityPlaceholder returns the example activity text for a month.
func ActivityPlaceholder(month string) string {
	if text, ok := activityPlaceholders[strings.TrimSpace(month)]; ok {
		return text
	}
	return "例：活動内容を入力してください"
}
