package workbook

import (
	"strconv"
	"strings"
)

// FormatCategory is the kind of value a cell's number format implies.
type FormatCategory int

const (
	CategoryText FormatCategory = iota
	CategoryInteger
	CategoryFloat
	CategoryDate
)

func (c FormatCategory) String() string {
	switch c {
	case CategoryText:
		return "text"
	case CategoryInteger:
		return "integer"
	case CategoryFloat:
		return "float"
	case CategoryDate:
		return "date"
	}
	return "FormatCategory(" + strconv.Itoa(int(c)) + ")"
}

// builtInFormats holds the format codes of the built-in number format ids
// that are not locale dependent.
var builtInFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	41: `_(* #,##0_);_(* \(#,##0\);_(* "-"_);_(@_)`,
	42: `_("$"* #,##0_);_("$"* \(#,##0\);_("$"* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* \(#,##0.00\);_(* "-"??_);_(@_)`,
	44: `_("$"* #,##0.00_);_("$"* \(#,##0.00\);_("$"* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// formatCode returns the format code for a style's number format. Built-in
// ids without a known code, such as the CJK date formats, are reported as
// "#<id>".
func formatCode(id int, custom *string) string {
	if custom != nil && *custom != "" {
		if strings.EqualFold(*custom, "general") {
			return "General"
		}
		return *custom
	}
	if code, ok := builtInFormats[id]; ok {
		return code
	}
	return "#" + strconv.Itoa(id)
}

// categorizeID classifies built-in number format ids.
func categorizeID(id int) FormatCategory {
	switch {
	case id == 0 || id == 49:
		return CategoryText
	case id == 1 || id == 3 || id == 37 || id == 38 || id == 41 || id == 42:
		return CategoryInteger
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return CategoryDate
	}
	return CategoryFloat
}

// Categorize classifies a number format code. Only the first section (the
// one used for positive values) is considered.
func Categorize(code string) FormatCategory {
	section := strings.ToLower(firstSection(code))
	if strings.TrimSpace(section) == "" || strings.TrimSpace(section) == "general" {
		return CategoryText
	}
	stripped, elapsed := stripLiterals(section)
	if strings.TrimSpace(stripped) == "general" {
		return CategoryText
	}
	switch {
	case elapsed, strings.ContainsAny(stripped, "ymdhs"):
		return CategoryDate
	case strings.Contains(stripped, "@"):
		return CategoryText
	case strings.ContainsAny(stripped, "%e/"):
		return CategoryFloat
	case hasDecimals(stripped):
		return CategoryFloat
	case strings.ContainsAny(stripped, "0#?"):
		return CategoryInteger
	}
	return CategoryText
}

func firstSection(code string) string {
	quoted := false
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			quoted = !quoted
		case '\\':
			i++
		case ';':
			if !quoted {
				return code[:i]
			}
		}
	}
	return code
}

// stripLiterals removes quoted text, escaped characters, padding and fill
// directives and bracketed sections. elapsed is true when a bracketed
// elapsed-time token such as [h] was found.
func stripLiterals(section string) (stripped string, elapsed bool) {
	var b strings.Builder
	for i := 0; i < len(section); i++ {
		c := section[i]
		switch c {
		case '"':
			j := strings.IndexByte(section[i+1:], '"')
			if j < 0 {
				return b.String(), elapsed
			}
			i += j + 1
		case '\\', '_', '*':
			i++
		case '[':
			j := strings.IndexByte(section[i+1:], ']')
			if j < 0 {
				return b.String(), elapsed
			}
			token := section[i+1 : i+1+j]
			if token != "" && strings.Trim(token, "hms") == "" {
				elapsed = true
			}
			i += j + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), elapsed
}

func hasDecimals(s string) bool {
	dot := strings.IndexByte(s, '.')
	return dot >= 0 && strings.ContainsAny(s[dot+1:], "0#?")
}
