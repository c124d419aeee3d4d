package bread

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// reDigitVulgar "1½" 這種寫法要先補空白，NFKC 之後才會變成 "1 1/2"
	reDigitVulgar = regexp.MustCompile(`(\d)([¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])`)
	reSpaceRun    = regexp.MustCompile(`[ \t\x{00A0}]+`)
)

// normalizeText 統一換行、全形字元與分數符號
func normalizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reDigitVulgar.ReplaceAllString(s, "$1 $2")
	// NFKC 會把 ½ 拆成 1⁄2，OCR 常見的連字（ﬁ）與全形數字也一併還原
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "⁄", "/")
	return s
}

// normalizeLine 單行版本，額外壓縮連續空白
func normalizeLine(line string) string {
	s := normalizeText(line)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(reSpaceRun.ReplaceAllString(s, " "))
}
