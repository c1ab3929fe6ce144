package cmd

import (
	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <file> <chunk-type>",
	Short: "Remove a chunk from a PNG file",
	Long: `Remove the first chunk of the given type and rewrite the file.

Example:
  pngme remove cat.png ruSt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseChunkType(args[1])
		if err != nil {
			return err
		}

		p, err := loadImage(args[0])
		if err != nil {
			return err
		}

		c, err := p.RemoveChunk(t)
		if err != nil {
			return err
		}

		if err := saveImage(p, args[0], true); err != nil {
			return err
		}

		cmd.Printf("Removed %s\n", c)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
