package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/phanxgames/linkframe"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the persisted view state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored view state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		data, ok, err := store.Load(linkframe.StorageKey)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "no stored state for session %q (starts on main)\n", store.Session())
			return nil
		}
		if _, err := linkframe.DecodeViewState(data); err != nil {
			fmt.Fprintf(out, "stored state is unreadable and will be replaced on next run: %v\n", err)
			return nil
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(out, pretty.String())
		return nil
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored view state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(linkframe.StorageKey); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "view state cleared for session %q\n", store.Session())
		return nil
	},
}

func init() {
	stateCmd.AddCommand(stateShowCmd, stateResetCmd)
}
