package cmd

import (
	"github.com/spf13/cobra"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <file> <id>",
	Short: "Insert a stashed chunk into a PNG file",
	Long: `Insert the stashed chunk with the given id just before IEND and rewrite
the file. The stash entry is removed unless --keep is set.

Example:
  pngme restore cat.png 2Zc9xGQGNyQ2yAvGq3rWoK8h1kP
  pngme restore cat.png 2Zc9xGQGNyQ2yAvGq3rWoK8h1kP --keep`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetBool("keep")

		id, err := parseStashID(args[1])
		if err != nil {
			return err
		}

		stash, err := container.Stash()
		if err != nil {
			return err
		}
		c, err := stash.Get(id)
		if err != nil {
			return err
		}

		p, err := loadImage(args[0])
		if err != nil {
			return err
		}
		p.InsertBeforeTerminator(c)

		if err := saveImage(p, args[0], true); err != nil {
			return err
		}

		if !keep {
			if err := stash.Delete(id); err != nil {
				return err
			}
		}

		cmd.Printf("Restored %s into %s\n", c, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().Bool("keep", false, "Keep the entry in the stash after restoring")
}
