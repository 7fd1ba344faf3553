// Package locale holds the language-dependent strings used while parsing a
// chat export: noise phrases, the missing-content sentinel and weekday names.
package locale

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocale is the language of the exports the tool was first written for.
const DefaultLocale = "it"

// Locale describes one export language.
type Locale struct {
	// Tag is the BCP 47 language tag.
	Tag language.Tag

	// Noise lists phrases whose lines are always dropped
	// (encryption notice, media placeholder).
	Noise []string

	// GroupNoise lists phrases dropped only for group conversations
	// (membership joins and leaves).
	GroupNoise []string

	// MissingText marks a record whose content could not be extracted.
	MissingText string

	// Weekdays holds full weekday names indexed by time.Weekday.
	Weekdays [7]string

	// DateOrder is how the app writes dates in this language ("dmy" or
	// "mdy"). It settles dates that fit either order.
	DateOrder string

	lower cases.Caser
}

var builtin = map[string]Locale{
	"it": {
		Tag:         language.Italian,
		Noise:       []string{"crittografati end-to-end", "media omessi"},
		GroupNoise:  []string{"ha aggiunto", "ha abbandonato"},
		MissingText: "testo mancante",
		Weekdays:    [7]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
		DateOrder:   "dmy",
	},
	"en": {
		Tag:         language.English,
		Noise:       []string{"end-to-end encrypted", "media omitted"},
		GroupNoise:  []string{"added", "left"},
		MissingText: "missing text",
		Weekdays:    [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		DateOrder:   "mdy",
	},
	"de": {
		Tag:         language.German,
		Noise:       []string{"ende-zu-ende-verschlüsselt", "medien ausgeschlossen"},
		GroupNoise:  []string{"hinzugefügt", "verlassen"},
		MissingText: "fehlender text",
		Weekdays:    [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		DateOrder:   "dmy",
	},
	"es": {
		Tag:         language.Spanish,
		Noise:       []string{"cifrados de extremo a extremo", "multimedia omitido"},
		GroupNoise:  []string{"añadió", "salió"},
		MissingText: "texto faltante",
		Weekdays:    [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		DateOrder:   "dmy",
	},
	"fr": {
		Tag:         language.French,
		Noise:       []string{"chiffrés de bout en bout", "médias omis"},
		GroupNoise:  []string{"a ajouté", "est parti"},
		MissingText: "texte manquant",
		Weekdays:    [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		DateOrder:   "dmy",
	},
}

// Lookup returns the locale for a language tag such as "it", "en-GB" or "de_DE".
// Regional variants resolve to their base language.
func Lookup(name string) (*Locale, error) {
	if name == "" {
		name = DefaultLocale
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", name, err)
	}
	base, _ := tag.Base()

	l, ok := builtin[base.String()]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q (supported: %s)", name, strings.Join(Supported(), ", "))
	}
	l.lower = cases.Lower(l.Tag)
	return &l, nil
}

// MustLookup is like Lookup but panics on error. Intended for tests and
// package-level defaults.
func MustLookup(name string) *Locale {
	l, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Supported returns the built-in locale names, sorted.
func Supported() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lower lowercases s using the language's casing rules.
func (l *Locale) Lower(s string) string {
	return l.lower.String(s)
}

// Weekday returns the full weekday name of t.
func (l *Locale) Weekday(t time.Time) string {
	return l.Weekdays[t.Weekday()]
}

// WithNoise returns a copy of l with the noise phrase sets replaced.
// A nil slice keeps the corresponding locale default. Phrases are lowercased
// because they are matched against lowercased lines.
func (l *Locale) WithNoise(always, group []string) *Locale {
	c := *l
	if always != nil {
		c.Noise = l.lowerAll(always)
	}
	if group != nil {
		c.GroupNoise = l.lowerAll(group)
	}
	return &c
}

func (l *Locale) lowerAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, l.Lower(p))
		}
	}
	return out
}
