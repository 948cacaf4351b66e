// bibleref/books.go - Canonical book table and book-name resolution
package bibleref

import (
	"fmt"
	"strings"
	"unicode"
)

// Book is one of the 66 canonical books of the Protestant canon.
type Book struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Testament string   `json:"testament"`
	Aliases   []string `json:"aliases"`
}

// Numbered reports whether the canonical name starts with a numeral ("1 John").
// Prefix matching is never applied to numbered books.
func (b Book) Numbered() bool {
	return b.Name != "" && b.Name[0] >= '0' && b.Name[0] <= '9'
}

// Single-letter numbered aliases ("1J", "1K", "1S", ...) are deliberately absent:
// they collide with partial typing of neighbouring books.
var canonicalBooks = []Book{
	{1, "Genesis", "OT", []string{"Gen", "Ge", "Gn"}},
	{2, "Exodus", "OT", []string{"Exod", "Ex", "Exo"}},
	{3, "Leviticus", "OT", []string{"Lev", "Le", "Lv"}},
	{4, "Numbers", "OT", []string{"Num", "Nu", "Nm", "Nb"}},
	{5, "Deuteronomy", "OT", []string{"Deut", "De", "Dt"}},
	{6, "Joshua", "OT", []string{"Josh", "Jos", "Jsh"}},
	{7, "Judges", "OT", []string{"Judg", "Jdg", "Jg", "Jdgs"}},
	{8, "Ruth", "OT", []string{"Rth", "Ru"}},
	{9, "1 Samuel", "OT", []string{"1 Sam", "1Sa", "1 Sm"}},
	{10, "2 Samuel", "OT", []string{"2 Sam", "2Sa", "2 Sm"}},
	{11, "1 Kings", "OT", []string{"1 Kgs", "1Ki", "1 Kin"}},
	{12, "2 Kings", "OT", []string{"2 Kgs", "2Ki", "2 Kin"}},
	{13, "1 Chronicles", "OT", []string{"1 Chr", "1Ch", "1Chron"}},
	{14, "2 Chronicles", "OT", []string{"2 Chr", "2Ch", "2Chron"}},
	{15, "Ezra", "OT", []string{"Ezr"}},
	{16, "Nehemiah", "OT", []string{"Neh", "Ne"}},
	{17, "Esther", "OT", []string{"Esth", "Es"}},
	{18, "Job", "OT", []string{"Jb"}},
	{19, "Psalms", "OT", []string{"Ps", "Psalm", "Psa", "Psm", "Pss"}},
	{20, "Proverbs", "OT", []string{"Prov", "Pr", "Prv"}},
	{21, "Ecclesiastes", "OT", []string{"Eccles", "Eccl", "Ecc", "Ec"}},
	{22, "Song of Solomon", "OT", []string{"Song", "SS", "So", "Canticles", "Song of Songs"}},
	{23, "Isaiah", "OT", []string{"Isa", "Is"}},
	{24, "Jeremiah", "OT", []string{"Jer", "Je", "Jr"}},
	{25, "Lamentations", "OT", []string{"Lam", "La"}},
	{26, "Ezekiel", "OT", []string{"Ezek", "Eze", "Ezk"}},
	{27, "Daniel", "OT", []string{"Dan", "Da", "Dn"}},
	{28, "Hosea", "OT", []string{"Hos", "Ho"}},
	{29, "Joel", "OT", []string{"Jl"}},
	{30, "Amos", "OT", []string{"Am"}},
	{31, "Obadiah", "OT", []string{"Obad", "Ob"}},
	{32, "Jonah", "OT", []string{"Jon", "Jnh"}},
	{33, "Micah", "OT", []string{"Mic", "Mc"}},
	{34, "Nahum", "OT", []string{"Nah", "Na"}},
	{35, "Habakkuk", "OT", []string{"Hab", "Hb"}},
	{36, "Zephaniah", "OT", []string{"Zeph", "Zep", "Zp"}},
	{37, "Haggai", "OT", []string{"Hag", "Hg"}},
	{38, "Zechariah", "OT", []string{"Zech", "Zec", "Zc"}},
	{39, "Malachi", "OT", []string{"Mal", "Ml"}},
	{40, "Matthew", "NT", []string{"Matt", "Mt"}},
	{41, "Mark", "NT", []string{"Mrk", "Mk", "Mr"}},
	{42, "Luke", "NT", []string{"Luk", "Lk"}},
	{43, "John", "NT", []string{"Jn", "Jhn"}},
	{44, "Acts", "NT", []string{"Ac"}},
	{45, "Romans", "NT", []string{"Rom", "Ro", "Rm"}},
	{46, "1 Corinthians", "NT", []string{"1 Cor", "1Co"}},
	{47, "2 Corinthians", "NT", []string{"2 Cor", "2Co"}},
	{48, "Galatians", "NT", []string{"Gal", "Ga"}},
	{49, "Ephesians", "NT", []string{"Eph", "Ephes"}},
	{50, "Philippians", "NT", []string{"Phil", "Php", "Pp"}},
	{51, "Colossians", "NT", []string{"Col", "Co"}},
	{52, "1 Thessalonians", "NT", []string{"1 Thess", "1Th", "1Ts"}},
	{53, "2 Thessalonians", "NT", []string{"2 Thess", "2Th", "2Ts"}},
	{54, "1 Timothy", "NT", []string{"1 Tim", "1Ti", "1Tm"}},
	{55, "2 Timothy", "NT", []string{"2 Tim", "2Ti", "2Tm"}},
	{56, "Titus", "NT", []string{"Tit", "Ti"}},
	{57, "Philemon", "NT", []string{"Phlm", "Phm"}},
	{58, "Hebrews", "NT", []string{"Heb"}},
	{59, "James", "NT", []string{"Jas", "Jm"}},
	{60, "1 Peter", "NT", []string{"1 Pet", "1Pe", "1Pt"}},
	{61, "2 Peter", "NT", []string{"2 Pet", "2Pe", "2Pt"}},
	{62, "1 John", "NT", []string{"1Jn", "1Jhn", "1 Joh"}},
	{63, "2 John", "NT", []string{"2Jn", "2Jhn", "2 Joh"}},
	{64, "3 John", "NT", []string{"3Jn", "3Jhn", "3 Joh"}},
	{65, "Jude", "NT", []string{"Jud", "Jd"}},
	{66, "Revelation", "NT", []string{"Rev", "Re", "The Revelation"}},
}

// bookIndex is built once from canonicalBooks and only read afterwards.
type bookIndex struct {
	byName  map[string]int // normalized canonical name -> position in canonicalBooks
	byAlias map[string]int // normalized alias -> position in canonicalBooks
	keys    [][]string     // per book: normalized name followed by its aliases
}

var index = buildIndex(canonicalBooks)

func buildIndex(books []Book) *bookIndex {
	idx := &bookIndex{
		byName:  make(map[string]int, len(books)),
		byAlias: make(map[string]int, len(books)*4),
		keys:    make([][]string, len(books)),
	}

	for i, b := range books {
		nameKey := NormalizeBookKey(b.Name)
		if _, dup := idx.byName[nameKey]; dup {
			panic(fmt.Sprintf("bibleref: duplicate book name %q", b.Name))
		}
		idx.byName[nameKey] = i
		idx.keys[i] = append(idx.keys[i], nameKey)

		for _, alias := range b.Aliases {
			key := NormalizeBookKey(alias)
			if key == nameKey {
				continue
			}
			if owner, dup := idx.byAlias[key]; dup && owner != i {
				panic(fmt.Sprintf("bibleref: alias %q claimed by %q and %q", alias, books[owner].Name, b.Name))
			}
			idx.byAlias[key] = i
			idx.keys[i] = append(idx.keys[i], key)
		}
	}

	// A full name must never be shadowed by another book's alias.
	for key, i := range idx.byAlias {
		if owner, ok := idx.byName[key]; ok && owner != i {
			panic(fmt.Sprintf("bibleref: alias of %q equals canonical name %q", books[i].Name, books[owner].Name))
		}
	}

	return idx
}

// NormalizeBookKey lower-cases s and drops everything that is not a letter or digit.
func NormalizeBookKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ResolveBook maps a user-typed book token to its canonical name.
//
// Matching order: exact canonical name, exact alias, then prefix of a name or
// alias. The prefix tier skips numbered books, and ties inside it go to the
// earliest book in canonical order.
func ResolveBook(token string) (string, error) {
	b, err := LookupBook(token)
	if err != nil {
		return "", err
	}
	return b.Name, nil
}

// LookupBook is ResolveBook returning the full Book entry.
func LookupBook(token string) (Book, error) {
	key := NormalizeBookKey(token)
	if key == "" {
		return Book{}, &UnknownBookError{Token: token}
	}

	if i, ok := index.byName[key]; ok {
		return canonicalBooks[i], nil
	}
	if i, ok := index.byAlias[key]; ok {
		return canonicalBooks[i], nil
	}

	for i, b := range canonicalBooks {
		if b.Numbered() {
			continue
		}
		for _, k := range index.keys[i] {
			if strings.HasPrefix(k, key) {
				return b, nil
			}
		}
	}

	return Book{}, &UnknownBookError{Token: token}
}

// Books returns a copy of the canonical book table in biblical order.
func Books() []Book {
	out := make([]Book, len(canonicalBooks))
	for i, b := range canonicalBooks {
		b.Aliases = append([]string(nil), b.Aliases...)
		out[i] = b
	}
	return out
}
