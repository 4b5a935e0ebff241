package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"library-dashboard/library"
)

// runInteractive is the command loop used when no subcommand is given.
func runInteractive(ctx context.Context, sc *bufio.Scanner, mgr *library.LibraryManager) {
	printWelcome(mgr)
	if mgr.LoggedIn() {
		fmt.Println("\nSession restored. Type 'stats' to open the dashboard.")
	} else {
		fmt.Println("\nYou are not logged in. Type 'login' or 'register' to begin.")
	}

	for {
		if ctx.Err() != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		fmt.Print("\n> ")
		if !sc.Scan() {
			break
		}
		cmd := strings.TrimSpace(sc.Text())

		var err error
		switch cmd {
		case "login":
			err = handleLogin(ctx, sc, mgr, "")
		case "register":
			err = handleRegister(ctx, sc, mgr, "")
		case "logout":
			handleLogout(mgr)
		case "status":
			handleStatus(mgr)
		case "stats", "overview", "dashboard":
			err = handleTab(ctx, mgr, library.TabOverview)
		case "list books", "books":
			err = handleTab(ctx, mgr, library.TabBooks)
		case "list students", "students":
			err = handleTab(ctx, mgr, library.TabStudents)
		case "list transactions", "transactions":
			err = handleTab(ctx, mgr, library.TabTransactions)
		case "refresh":
			err = handleTab(ctx, mgr, mgr.Dashboard.ActiveTab())
		case "refresh all":
			err = handleRefreshAll(ctx, mgr)
		case "list positions", "positions":
			err = handleListPositions(ctx, mgr)
		case "add position":
			err = handleAddPosition(ctx, sc, mgr, library.PositionInput{})
		case "update position":
			err = handleUpdatePosition(ctx, sc, mgr, "", library.PositionInput{})
		case "delete position":
			err = handleDeletePosition(ctx, sc, mgr, "", false)
		case "help":
			printWelcome(mgr)
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Type 'help' to see the available commands.")
		}

		if err != nil && !errors.Is(err, errReported) {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
