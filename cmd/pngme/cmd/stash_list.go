package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// stashListCmd represents the stash-list command
var stashListCmd = &cobra.Command{
	Use:   "stash-list",
	Short: "List stashed chunks",
	Long: `List the chunks in the local stash, oldest first.

Example:
  pngme stash-list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stash, err := container.Stash()
		if err != nil {
			return err
		}
		entries, err := stash.List()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			cmd.Println("Stash is empty")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tSIZE\tSTASHED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, describeType(e.Type), humanize.IBytes(uint64(e.Length)), humanize.Time(e.ID.Time()))
		}
		return tw.Flush()
	},
}

// stashDropCmd represents the stash-drop command
var stashDropCmd = &cobra.Command{
	Use:   "stash-drop <id>",
	Short: "Delete a stashed chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseStashID(args[0])
		if err != nil {
			return err
		}
		stash, err := container.Stash()
		if err != nil {
			return err
		}
		if err := stash.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Dropped %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stashListCmd)
	rootCmd.AddCommand(stashDropCmd)
}
