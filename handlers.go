package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"library-dashboard/library"
)

// errReported marks an error whose message has already been shown.
var errReported = errors.New("reported")

func handleLogin(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager, username string) error {
	if username == "" {
		var ok bool
		if username, ok = prompt(sc, "Username: "); !ok {
			return errReported
		}
	}
	password, err := readPassword(sc, "Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Println("Signing in...")
	if err := mgr.Login.Submit(ctx, username, password); err != nil {
		reportForm(mgr.Login.Message(), err)
		return errReported
	}
	fmt.Printf("Logged in as %s.\n", username)
	return nil
}

func handleRegister(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager, username string) error {
	if username == "" {
		var ok bool
		if username, ok = prompt(sc, "Choose a username: "); !ok {
			return errReported
		}
	}
	password, err := readPassword(sc, "Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := readPassword(sc, "Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := mgr.Register.Submit(ctx, username, password, confirm); err != nil {
		reportForm(mgr.Register.Message(), err)
		return errReported
	}
	fmt.Println(mgr.Register.Message())
	return nil
}

func reportForm(msg string, err error) {
	if msg == "" {
		msg = err.Error()
	}
	fmt.Printf("Error: %s\n", msg)
}

func handleLogout(mgr *library.LibraryManager) {
	if !mgr.LoggedIn() {
		fmt.Println("Not logged in.")
		return
	}
	mgr.Logout()
	fmt.Println("Logged out.")
}

func handleStatus(mgr *library.LibraryManager) {
	fmt.Printf("API:     %s\n", mgr.Config.APIBaseURL)
	if mgr.Config.StatePath == "" {
		fmt.Println("Session: in memory only")
	} else {
		fmt.Printf("Session: %s\n", mgr.Config.StatePath)
	}
	if !mgr.LoggedIn() {
		fmt.Println("Status:  logged out")
		return
	}
	if since, ok := mgr.SessionStarted(); ok {
		fmt.Printf("Status:  logged in since %s\n", since.Local().Format(time.DateTime))
	} else {
		fmt.Println("Status:  logged in")
	}
}

// handleTab loads one dashboard tab and renders it. Failed fetches have
// already been replaced by sample data; only auth errors come back.
func handleTab(ctx context.Context, mgr *library.LibraryManager, tab library.Tab) error {
	if err := mgr.Dashboard.SelectTab(ctx, tab); err != nil && !errors.Is(err, library.ErrSuperseded) {
		return err
	}
	renderTab(mgr.Dashboard, tab)
	return nil
}

func renderTab(d *library.Dashboard, tab library.Tab) {
	switch tab {
	case library.TabOverview:
		printStats(d.Stats())
	case library.TabBooks:
		printBooks(d.Books())
	case library.TabStudents:
		printStudents(d.Students())
	case library.TabTransactions:
		printBorrowRecords(d.BorrowRecords())
	}
}

func handleRefreshAll(ctx context.Context, mgr *library.LibraryManager) error {
	fmt.Println("Loading all dashboard data...")
	if err := mgr.Dashboard.LoadAll(ctx); err != nil {
		return err
	}
	for _, tab := range library.Tabs {
		fmt.Printf("\n== %s ==\n", strings.ToUpper(string(tab)))
		renderTab(mgr.Dashboard, tab)
	}
	return nil
}

func handleListPositions(ctx context.Context, mgr *library.LibraryManager) error {
	err := mgr.Positions.Open(ctx)
	if library.IsAuthError(err) {
		return err
	}
	printPositions(mgr.Positions.Positions())
	printNotice(mgr.Positions)
	if err != nil {
		return errReported
	}
	return nil
}

func handleAddPosition(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager, in library.PositionInput) error {
	if !promptPosition(sc, &in) {
		return errReported
	}
	err := mgr.Positions.Create(ctx, in)
	return afterPositionWrite(mgr, err)
}

func handleUpdatePosition(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager, idStr string, in library.PositionInput) error {
	id, ok := readID(sc, idStr)
	if !ok {
		return errReported
	}
	if !promptPosition(sc, &in) {
		return errReported
	}
	err := mgr.Positions.Update(ctx, id, in)
	return afterPositionWrite(mgr, err)
}

func handleDeletePosition(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager, idStr string, confirmed bool) error {
	id, ok := readID(sc, idStr)
	if !ok {
		return errReported
	}
	if !confirmed {
		answer, ok := prompt(sc, "Are you sure you want to delete this position? [y/N]: ")
		if !ok || !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	err := mgr.Positions.Delete(ctx, id)
	return afterPositionWrite(mgr, err)
}

func afterPositionWrite(mgr *library.LibraryManager, err error) error {
	printNotice(mgr.Positions)
	if err != nil {
		if library.IsAuthError(err) {
			return err
		}
		return errReported
	}
	printPositions(mgr.Positions.Positions())
	return nil
}

func promptPosition(sc *bufio.Scanner, in *library.PositionInput) bool {
	var ok bool
	if in.Code == "" {
		if in.Code, ok = prompt(sc, "Position code: "); !ok {
			return false
		}
	}
	if in.Name == "" {
		if in.Name, ok = prompt(sc, "Position name: "); !ok {
			return false
		}
	}
	return true
}

func readID(sc *bufio.Scanner, idStr string) (int64, bool) {
	if idStr == "" {
		var ok bool
		if idStr, ok = prompt(sc, "Position ID: "); !ok {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		fmt.Printf("Invalid position ID: %s\n", idStr)
		return 0, false
	}
	return id, true
}

func printNotice(p *library.PositionsScreen) {
	success, failure := p.Notice()
	if success != "" {
		fmt.Println(success)
	}
	if failure != "" {
		fmt.Printf("Error: %s\n", failure)
	}
}
