package domain

// Country identifies a supported country. The set is closed: adding a country
// means registering a new source adapter, not extending this type at runtime.
type Country string

const (
	CountrySlovenia Country = "si"
	CountryGermany  Country = "de"
	CountryGlobal   Country = "global"
)

// ParseCountry validates a country code coming from the API boundary.
func ParseCountry(code string) (Country, error) {
	switch Country(code) {
	case CountrySlovenia, CountryGermany, CountryGlobal:
		return Country(code), nil
	default:
		return "", ErrUnsupportedCountry
	}
}

// Label returns the human-readable country name.
func (c Country) Label() string {
	switch c {
	case CountrySlovenia:
		return "Slovenia"
	case CountryGermany:
		return "Germany"
	case CountryGlobal:
		return "Global"
	default:
		return ""
	}
}

// Language identifies a supported alert localization language.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageGerman    Language = "de"
	LanguageSlovenian Language = "sl"
)

// BaseLanguage is the mandatory fallback language every alert is stored in.
const BaseLanguage = LanguageEnglish

// ParseLanguage validates a language code, defaulting to English when empty.
func ParseLanguage(code string) (Language, error) {
	if code == "" {
		return BaseLanguage, nil
	}
	switch Language(code) {
	case LanguageEnglish, LanguageGerman, LanguageSlovenian:
		return Language(code), nil
	default:
		return "", &InvalidSearchQueryError{Reason: "unsupported language"}
	}
}
