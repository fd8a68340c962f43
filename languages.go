package gointl

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageNameOverrides replaces CLDR names where the script matters more than the region.
var languageNameOverrides = map[string]string{
	"zh_CN": "Chinese (Simplified)",
	"zh_SG": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"zh_HK": "Chinese (Traditional)",
}

// LocaleClarifications disambiguates regional variants that a bare name undersells.
var LocaleClarifications = map[string]string{
	"pt_BR": "Use Brazilian Portuguese spelling and vocabulary, not European Portuguese.",
	"pt_PT": "Use European Portuguese spelling and vocabulary, not Brazilian Portuguese.",
	"es_MX": "Use Mexican Spanish vocabulary; prefer ustedes over vosotros.",
	"es_ES": "Use Castilian Spanish as spoken in Spain.",
	"zh_CN": "Use Simplified Chinese characters.",
	"zh_TW": "Use Traditional Chinese characters as used in Taiwan.",
	"en_GB": "Use British English spelling.",
	"en_US": "Use American English spelling.",
	"fr_CA": "Use Canadian French vocabulary.",
}

// rtlScripts are the ISO 15924 scripts written right to left.
var rtlScripts = map[string]bool{
	"Adlm": true,
	"Arab": true,
	"Hebr": true,
	"Mand": true,
	"Nkoo": true,
	"Rohg": true,
	"Samr": true,
	"Syrc": true,
	"Thaa": true,
}

func parseLocale(langCode string) (language.Tag, error) {
	return language.Parse(ToBCP47(NormalizeLocale(langCode)))
}

// GetLanguageName returns an English name such as "Portuguese (Brazil)" from CLDR data.
// Unparseable codes are returned as is.
func GetLanguageName(langCode string) string {
	if name, ok := languageNameOverrides[NormalizeLocale(langCode)]; ok {
		return name
	}

	tag, err := parseLocale(langCode)
	if err != nil {
		return langCode
	}

	base, _ := tag.Base()
	name := display.English.Languages().Name(base)
	if name == "" {
		return langCode
	}

	if region, conf := tag.Region(); conf == language.Exact {
		if regionName := display.English.Regions().Name(region); regionName != "" {
			name += " (" + regionName + ")"
		}
	}
	return name
}

// expandLocale adds the most likely region to a bare language code ("pt" → "pt_BR").
func expandLocale(langCode string) string {
	code := NormalizeLocale(langCode)
	if strings.Contains(code, "_") {
		return code
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No {
		return code
	}
	return base.String() + "_" + region.String()
}

// GetLocaleClarification returns a prompt hint for regional variants, or "".
func GetLocaleClarification(langCode string) string {
	return LocaleClarifications[expandLocale(langCode)]
}

// GetStyleDescription describes a translation style for a prompt.
// Unknown or empty styles describe the neutral tone.
func GetStyleDescription(style TranslationStyle) string {
	switch style {
	case StyleFormal:
		return "Use formal, professional language and polite forms of address."
	case StyleCasual:
		return "Use casual, conversational language."
	case StyleMarketing:
		return "Use persuasive, engaging language suited to marketing copy."
	case StyleTechnical:
		return "Use precise, technical language and keep technical terms consistent."
	default:
		return "Use a neutral tone suitable for user interface text."
	}
}

// GetDirection returns "rtl" when the language's likely script is written
// right to left, "ltr" otherwise.
func GetDirection(langCode string) string {
	tag, err := parseLocale(langCode)
	if err != nil {
		return "ltr"
	}

	if script, _ := tag.Script(); rtlScripts[script.String()] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL reports whether the language is written right to left.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale converts a language code to the langpack format ("es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "-", "_")
}

// ToBCP47 converts a langpack language code to a BCP 47 tag ("es_ES" → "es-ES").
func ToBCP47(langCode string) string {
	return strings.ReplaceAll(langCode, "_", "-")
}
