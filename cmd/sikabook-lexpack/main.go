// Command sikabook-lexpack validates the embedded lexicon pack and prints a
// summary, used as a build gate when editing lexicon.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"sikabook/internal/core/lexicon"
)

type summary struct {
	Version   int            `json:"version"`
	Currency  string         `json:"currency"`
	Products  int            `json:"products"`
	Units     int            `json:"units"`
	Rules     map[string]int `json:"rules"`
	Numbers   map[string]int `json:"number_words"`
	Languages []string       `json:"languages"`
}

func main() {
	asJSON := flag.Bool("json", false, "emit the summary as JSON")
	flag.Parse()

	pack, err := lexicon.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lexicon invalid: %v\n", err)
		os.Exit(1)
	}

	s := summary{
		Version:  pack.Version,
		Currency: pack.Currency.Code,
		Products: len(pack.Products),
		Units:    len(pack.Units),
		Rules:    map[string]int{},
		Numbers:  map[string]int{},
	}
	for lang, rules := range pack.Intents {
		s.Rules[lang] = len(rules)
		s.Languages = append(s.Languages, lang)
	}
	sort.Strings(s.Languages)
	for lang, words := range pack.NumberWords {
		s.Numbers[lang] = len(words)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(s)
		return
	}

	fmt.Printf("lexicon v%d ok: %s, %d products, %d units\n", s.Version, s.Currency, s.Products, s.Units)
	for _, lang := range s.Languages {
		fmt.Printf("  %-4s %d intent rules, %d number words\n", lang, s.Rules[lang], s.Numbers[lang])
	}
}
