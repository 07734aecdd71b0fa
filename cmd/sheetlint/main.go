// Package main provides a CLI tool for validating character-sheet files
// before they are seated at a table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/game/character"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/sheet"
)

func main() {
	start := time.Now()

	path := flag.String("path", "", "sheet file or directory of sheets (required)")
	verbose := flag.Bool("verbose", false, "print derived modifiers for each valid sheet")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	info, err := os.Stat(*path)
	if err != nil {
		log.Fatalf("inspecting %q: %v", *path, err)
	}

	files := []string{*path}
	if info.IsDir() {
		files, err = sheetFiles(*path)
		if err != nil {
			log.Fatalf("reading %q: %v", *path, err)
		}
		if len(files) == 0 {
			log.Fatalf("no sheet files in %q", *path)
		}
	}

	// Sheets are checked through the same construction path the console
	// uses, so a sheet that lints clean is guaranteed to seat.
	d := dice.NewDice(dice.NewTimeSource(), zap.NewNop())

	failures := 0
	for _, f := range files {
		s, err := sheet.Load(f)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		pc, err := character.FromSheet(s, d)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "%q: %v\n", f, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: ok\n", pc.Name())
		if *verbose {
			printModifiers(pc)
		}
	}

	fmt.Fprintf(os.Stdout, "checked %d file(s), %d invalid [%s]\n",
		len(files), failures, time.Since(start))
	if failures > 0 {
		os.Exit(1)
	}
}

func sheetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func printModifiers(pc *character.PC) {
	abilities := []character.Ability{
		character.Strength, character.Dexterity, character.Constitution,
		character.Intelligence, character.Wisdom, character.Charisma,
	}
	for _, a := range abilities {
		score, err := pc.AbilityScore(a)
		if err != nil {
			continue
		}
		mod, _ := pc.AbilityModifier(a)
		fmt.Fprintf(os.Stdout, "  %-13s %3d (%+d)\n", a, score, mod)
	}

	proficiencies := []character.Proficiency{
		character.Insight, character.Investigation, character.Perception, character.Stealth,
	}
	for _, p := range proficiencies {
		level, err := pc.ProficiencyLevel(p)
		if err != nil {
			continue
		}
		mod, _ := pc.ProficiencyModifier(p)
		fmt.Fprintf(os.Stdout, "  %-13s lvl %d (%+d)\n", p, level, mod)
	}
}
