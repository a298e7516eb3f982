package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect bot users",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List everyone who has talked to the bot",
		RunE:  runUsersList,
	}

	usersCmd.AddCommand(listCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	store, closer, err := openStore()
	if err != nil {
		return err
	}
	defer closer()

	users, err := store.ListUsers()
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-20s %-24s %-8s %-16s\n", "ID", "USERNAME", "NAME", "MEMBER", "LAST SEEN")
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		member := "no"
		if u.Joined {
			member = "yes"
		}
		lastSeen := "-"
		if u.LastSeenAt != nil {
			lastSeen = u.LastSeenAt.Format("2006-01-02 15:04")
		}
		username := u.Username
		if username == "" {
			username = "-"
		}
		fmt.Printf("%-12d %-20s %-24s %-8s %-16s\n", u.ID, username, truncate(name, 24), member, lastSeen)
	}
	fmt.Printf("\n%d user(s)\n", len(users))
	return nil
}
