package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"library-dashboard/library"

	"github.com/spf13/cobra"
)

// runE adapts a handler to cobra: errors already shown to the user only set
// the exit status.
func runE(fn func(cmd *cobra.Command, args []string, mgr *library.LibraryManager) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := withManager(func(mgr *library.LibraryManager) error {
			return fn(cmd, args, mgr)
		})
		if errors.Is(err, errReported) {
			cmd.SilenceErrors = true
		}
		return err
	}
}

func newLoginCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleLogin(cmd.Context(), bufio.NewScanner(os.Stdin), mgr, username)
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleRegister(cmd.Context(), bufio.NewScanner(os.Stdin), mgr, username)
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: runE(func(_ *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			handleLogout(mgr)
			return nil
		}),
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API and session in use",
		Args:  cobra.NoArgs,
		RunE: runE(func(_ *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			handleStatus(mgr)
			return nil
		}),
	}
}

func newTabCmd(use, short string, tab library.Tab) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleTab(cmd.Context(), mgr, tab)
		}),
	}
}

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "List and manage staff positions",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleListPositions(cmd.Context(), mgr)
		}),
	}

	var in library.PositionInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a position",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleAddPosition(cmd.Context(), bufio.NewScanner(os.Stdin), mgr, in)
		}),
	}
	add.Flags().StringVar(&in.Code, "code", "", "position code")
	add.Flags().StringVar(&in.Name, "name", "", "position name")

	var upd library.PositionInput
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a position's code and name",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string, mgr *library.LibraryManager) error {
			return handleUpdatePosition(cmd.Context(), bufio.NewScanner(os.Stdin), mgr, args[0], upd)
		}),
	}
	update.Flags().StringVar(&upd.Code, "code", "", "new position code")
	update.Flags().StringVar(&upd.Name, "name", "", "new position name")

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a position",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string, mgr *library.LibraryManager) error {
			return handleDeletePosition(cmd.Context(), bufio.NewScanner(os.Stdin), mgr, args[0], yes)
		}),
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	list := &cobra.Command{
		Use:   "list",
		Short: "List positions",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string, mgr *library.LibraryManager) error {
			return handleListPositions(cmd.Context(), mgr)
		}),
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func printWelcome(mgr *library.LibraryManager) {
	fmt.Println("Welcome to the Library Dashboard!")
	fmt.Printf("Connected to %s\n", mgr.Config.APIBaseURL)
	fmt.Println("Available commands:")
	fmt.Println("  Session: login, register, logout, status")
	fmt.Println("  Dashboard: stats, list books, list students, list transactions, refresh, refresh all")
	fmt.Println("  Positions: list positions, add position, update position, delete position")
	fmt.Println("  System: help, exit")
}
