// Package translate formats user visible messages for the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	printer = message.NewPrinter(match(messages, locales...), message.Catalog(messages))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// match returns the catalog language that best fits the given locale names.
// Unparsable names are skipped. Falls back to en-US.
func match(c catalog.Catalog, locales ...string) language.Tag {
	want := make([]language.Tag, 0, len(locales))
	for _, name := range locales {
		if tag, err := language.Parse(name); err == nil {
			want = append(want, tag)
		}
	}

	supported := c.Languages()
	_, index, _ := c.Matcher().Match(want...)
	return supported[index]
}
