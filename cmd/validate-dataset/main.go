// Command validate-dataset loads a gazetteer dataset and checks it before
// deployment.
//
// Usage:
//
//	go run ./cmd/validate-dataset -path ./RU.txt -min 10000
//
// Known-city checks default to a few large Russian cities and can be
// extended with repeated -expect name=id flags.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andreiashu/gazetteer"
	"github.com/andreiashu/gazetteer/internal/observability"
)

var defaultKnown = []gazetteer.KnownCity{
	{Name: "Москва", WantID: "524901"},
	{Name: "Санкт-Петербург", WantID: "498817"},
	{Name: "Новосибирск", WantID: "1496747"},
}

type expectFlag []gazetteer.KnownCity

func (e *expectFlag) String() string { return fmt.Sprint(*e) }

func (e *expectFlag) Set(v string) error {
	name, id, ok := strings.Cut(v, "=")
	if !ok || name == "" || id == "" {
		return fmt.Errorf("want name=id, got %q", v)
	}
	*e = append(*e, gazetteer.KnownCity{Name: name, WantID: id})
	return nil
}

func main() {
	path := flag.String("path", "RU.txt", "dataset file (.txt, .gz, .bz2, .zst or .zip)")
	minRecords := flag.Int("min", 10000, "minimum number of records expected")
	noDefaults := flag.Bool("no-defaults", false, "skip the built-in known-city checks")
	var expect expectFlag
	flag.Var(&expect, "expect", "known city as name=id (repeatable)")
	flag.Parse()

	log.Logger = observability.NewLogger(os.Getenv("APP_ENV"))

	known := []gazetteer.KnownCity(expect)
	if !*noDefaults {
		known = append(append([]gazetteer.KnownCity(nil), defaultKnown...), known...)
	}

	g, err := gazetteer.LoadFile(*path, gazetteer.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}
	if err := g.Validate(*minRecords, known); err != nil {
		log.Error().Err(err).Int("records", g.Len()).Msg("validation failed")
		os.Exit(1)
	}
	log.Info().Int("records", g.Len()).Int("known", len(known)).Msg("dataset OK")
}
