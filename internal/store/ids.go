package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// Id prefixes by entity kind.
const (
	IDPrefixDocument = "doc"
	IDPrefixSection  = "sec"
	IDPrefixItem     = "itm"
	IDPrefixField    = "fld"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newRandomID returns prefix-<8 lowercase base32 chars> (40 random bits).
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToLower(idEncoding.EncodeToString(b[:])), nil
}

// idExists only looks at the table the prefix selects.
func idExists(db *DB, id string) bool {
	if db == nil {
		return false
	}
	prefix, _, _ := strings.Cut(id, "-")
	switch prefix {
	case IDPrefixDocument:
		_, ok := db.FindDocument(id)
		return ok
	case IDPrefixSection:
		_, ok := db.FindSection(id)
		return ok
	case IDPrefixItem:
		_, ok := db.FindItem(id)
		return ok
	case IDPrefixField:
		_, ok := db.FindField(id)
		return ok
	}
	_, d := db.FindDocument(id)
	_, s := db.FindSection(id)
	_, i := db.FindItem(id)
	_, f := db.FindField(id)
	return d || s || i || f
}
