package testutil

import (
	"strings"
	"unicode/utf8"
)

// entryData holds one registry entry to be registered.
type entryData struct {
	key        string
	name       string
	symbol     string
	components []string
	override   bool
}

func newEntry(key string, opts []EntryOption) entryData {
	first, _ := utf8.DecodeRuneInString(key)
	e := entryData{
		key:    key,
		name:   key,
		symbol: strings.ToUpper(string(first)),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EntryOption configures an entry during builder setup.
type EntryOption func(*entryData)

// Name sets the definition name.
func Name(name string) EntryOption {
	return func(e *entryData) { e.name = name }
}

// Symbol sets the definition symbol.
func Symbol(symbol string) EntryOption {
	return func(e *entryData) { e.symbol = symbol }
}

// Components sets the factors of a derived entry, written "length^2",
// "mass^1/2" or just "time" for exponent 1.
func Components(defs ...string) EntryOption {
	return func(e *entryData) { e.components = defs }
}

// Override registers the entry with the replace discipline.
func Override() EntryOption {
	return func(e *entryData) { e.override = true }
}
