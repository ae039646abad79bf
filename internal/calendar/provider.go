package calendar

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provider supplies the calendar rules a Date is built with. It is the only
// place locale or time zone knowledge enters the package.
type Provider interface {
	FirstWeekday() time.Weekday
	Components(t time.Time) (year int, month time.Month, day int)
	MonthName(m time.Month) string
	WeekdayName(d time.Weekday) string
}

// ShortWeekdayNamer is implemented by providers that have abbreviated
// weekday names.
type ShortWeekdayNamer interface {
	ShortWeekdayName(d time.Weekday) string
}

type localeNames struct {
	months        [12]string
	weekdays      [7]string
	shortWeekdays [7]string
}

var supportedLocales = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Dutch,
	language.Portuguese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var namesByLocale = map[language.Base]*localeNames{
	mustBase(language.English): {
		months:        [12]string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
		weekdays:      [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
		shortWeekdays: [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"},
	},
	mustBase(language.German): {
		months:        [12]string{"januar", "februar", "märz", "april", "mai", "juni", "juli", "august", "september", "oktober", "november", "dezember"},
		weekdays:      [7]string{"sonntag", "montag", "dienstag", "mittwoch", "donnerstag", "freitag", "samstag"},
		shortWeekdays: [7]string{"so", "mo", "di", "mi", "do", "fr", "sa"},
	},
	mustBase(language.French): {
		months:        [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		weekdays:      [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		shortWeekdays: [7]string{"dim", "lun", "mar", "mer", "jeu", "ven", "sam"},
	},
	mustBase(language.Spanish): {
		months:        [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		weekdays:      [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		shortWeekdays: [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	},
	mustBase(language.Italian): {
		months:        [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
		weekdays:      [7]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
		shortWeekdays: [7]string{"dom", "lun", "mar", "mer", "gio", "ven", "sab"},
	},
	mustBase(language.Dutch): {
		months:        [12]string{"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
		weekdays:      [7]string{"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"},
		shortWeekdays: [7]string{"zo", "ma", "di", "wo", "do", "vr", "za"},
	},
	mustBase(language.Portuguese): {
		months:        [12]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
		weekdays:      [7]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"},
		shortWeekdays: [7]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"},
	},
}

// Regions whose weeks conventionally start on Sunday. Everything else
// defaults to Monday.
var sundayRegions = map[string]struct{}{
	"US": {}, "CA": {}, "MX": {}, "BR": {}, "JP": {}, "KR": {}, "TW": {},
	"HK": {}, "IL": {}, "PH": {}, "ZA": {}, "AU": {}, "IN": {}, "CO": {},
	"PE": {}, "VE": {}, "AR": {}, "GT": {}, "SA": {},
}

func mustBase(tag language.Tag) language.Base {
	base, _ := tag.Base()
	return base
}

type localeProvider struct {
	tag                  language.Tag
	matched              language.Tag
	names                *localeNames
	location             *time.Location
	firstWeekday         time.Weekday
	firstWeekdayOverride *time.Weekday
}

type ProviderOption func(*localeProvider)

// WithLocale sets the language used for month and weekday names. Unsupported
// languages fall back to the closest supported one, English by default.
func WithLocale(tag language.Tag) ProviderOption {
	return func(p *localeProvider) {
		p.tag = tag
	}
}

// WithLocation sets the time zone components are extracted in.
func WithLocation(loc *time.Location) ProviderOption {
	return func(p *localeProvider) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithFirstWeekday overrides the first weekday implied by the locale's region.
func WithFirstWeekday(day time.Weekday) ProviderOption {
	return func(p *localeProvider) {
		firstWeekday := day
		p.firstWeekdayOverride = &firstWeekday
	}
}

// NewProvider returns a Provider backed by the built in name tables.
func NewProvider(options ...ProviderOption) Provider {
	p := &localeProvider{
		tag:      language.English,
		location: time.Local,
	}

	for _, option := range options {
		option(p)
	}

	_, index, _ := localeMatcher.Match(p.tag)
	p.names = namesByLocale[mustBase(supportedLocales[index])]
	p.matched = supportedLocales[index]

	if p.firstWeekdayOverride != nil {
		p.firstWeekday = *p.firstWeekdayOverride
	} else {
		p.firstWeekday = FirstWeekdayForLocale(p.tag)
	}

	return p
}

// FirstWeekdayForLocale returns the conventional first day of the week for
// the region of tag. The region is inferred when the tag does not name one.
func FirstWeekdayForLocale(tag language.Tag) time.Weekday {
	region, _ := tag.Region()
	if _, ok := sundayRegions[region.String()]; ok {
		return time.Sunday
	}

	return time.Monday
}

func (p *localeProvider) FirstWeekday() time.Weekday {
	return p.firstWeekday
}

func (p *localeProvider) Components(t time.Time) (int, time.Month, int) {
	return t.In(p.location).Date()
}

func (p *localeProvider) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}

	return p.titleCase(p.names.months[m-1])
}

func (p *localeProvider) WeekdayName(d time.Weekday) string {
	return p.titleCase(p.names.weekdays[d%7])
}

func (p *localeProvider) ShortWeekdayName(d time.Weekday) string {
	return p.titleCase(p.names.shortWeekdays[d%7])
}

// Casers keep state, so a fresh one is made per call.
func (p *localeProvider) titleCase(s string) string {
	return cases.Title(p.matched).String(s)
}
