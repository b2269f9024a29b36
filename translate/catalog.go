package translate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// messages holds the translations keyed by their en-US format string.
var messages = newCatalog(map[language.Tag][][2]string{
	language.German: {
		{"stack overflow", "Stapelüberlauf"},
		{"stack underflow", "Stapelunterlauf"},
		{"address out of range", "Adresse außerhalb des Speichers"},
		{"rom too large", "ROM zu groß"},
		{"shortcut keys:", "Tastenkürzel:"},
		{"keypad:", "Tastenfeld:"},
		{"Exit the program.", "Programm beenden."},
		{"Display this help.", "Diese Hilfe anzeigen."},
		{"Save the machine state.", "Maschinenzustand speichern."},
		{"Restore the saved machine state.", "Gespeicherten Maschinenzustand laden."},
		{"Save a screenshot.", "Bildschirmfoto speichern."},
	},
	language.French: {
		{"stack overflow", "débordement de pile"},
		{"stack underflow", "pile vide"},
		{"address out of range", "adresse hors limites"},
		{"rom too large", "ROM trop grande"},
		{"shortcut keys:", "raccourcis clavier :"},
		{"keypad:", "clavier :"},
		{"Exit the program.", "Quitter le programme."},
		{"Display this help.", "Afficher cette aide."},
		{"Save the machine state.", "Enregistrer l'état de la machine."},
		{"Restore the saved machine state.", "Restaurer l'état enregistré."},
		{"Save a screenshot.", "Enregistrer une capture d'écran."},
	},
})

// newCatalog builds a catalog from the given key/message pairs. en-US is
// the fallback and maps every key onto itself.
func newCatalog(tables map[language.Tag][][2]string) *catalog.Builder {
	c := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))

	for tag, table := range tables {
		for _, pair := range table {
			mustSet(c, tag, pair[0], pair[1])
			mustSet(c, language.AmericanEnglish, pair[0], pair[0])
		}
	}

	return c
}

func mustSet(c *catalog.Builder, tag language.Tag, key, msg string) {
	if err := c.SetString(tag, key, msg); err != nil {
		panic(err)
	}
}
