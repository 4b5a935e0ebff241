package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"library-dashboard/library"
)

var errNotLoggedIn = errors.New("not logged in, run 'librarian login' first")

// Bulk-creates positions from a CSV file of "code,name" rows using the
// session stored by `librarian login`.
func main() {
	path := "positions.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := library.LoadConfig(os.Getenv("LIBRARY_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	manager, err := library.NewLibraryManager(cfg, nil)
	if err != nil {
		return fmt.Errorf("open session state: %w", err)
	}
	defer manager.Close()

	if !manager.LoggedIn() {
		return errNotLoggedIn
	}

	rows, err := readPositions(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	fmt.Printf("Importing %d positions from %s into %s...\n", len(rows), path, cfg.APIBaseURL)

	successCount := 0
	errorCount := 0

	for _, in := range rows {
		fmt.Printf("Creating: %s (%s)... ", in.Name, in.Code)

		if err := library.ValidatePosition(in); err != nil {
			fmt.Printf("SKIPPED - %v\n", err)
			errorCount++
			continue
		}

		msg, err := manager.Client.CreatePosition(ctx, in)
		if library.IsAuthError(err) {
			fmt.Println("ERROR - session rejected, aborting")
			return err
		}
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}

		if msg == "" {
			msg = "created"
		}
		fmt.Printf("SUCCESS (%s)\n", msg)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d positions\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	// Display the listing as the server now has it
	if successCount > 0 {
		fmt.Println("\nCurrent positions:")
		positions, err := manager.Client.Positions(ctx)
		if err != nil {
			fmt.Printf("Error retrieving positions: %v\n", err)
			return nil
		}
		fmt.Printf("%-5s %-15s %-40s\n", "ID", "Code", "Name")
		fmt.Println(strings.Repeat("-", 62))
		for _, p := range positions {
			fmt.Printf("%-5d %-15s %-40s\n", p.ID, truncateString(p.Code, 15), truncateString(p.Name, 40))
		}
	}
	return nil
}

// readPositions parses "code,name" rows. A header row starting with "code"
// and blank lines are skipped.
func readPositions(path string) ([]library.PositionInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	var rows []library.PositionInput
	for n := 1; ; n++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("record %d: want code,name", n)
		}
		if n == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}
		rows = append(rows, library.PositionInput{Code: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])})
	}
	return rows, nil
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
