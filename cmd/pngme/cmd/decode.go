package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/png"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file> <chunk-type>",
	Short: "Print the message hidden in a chunk",
	Long: `Print the data of the first chunk of the given type as UTF-8 text.

Example:
  pngme decode cat.png ruSt`,
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

		c, ok := p.ChunkByType(t)
		if !ok {
			return fmt.Errorf("%w: %s in %s", png.ErrNotFound, t, args[0])
		}

		message, err := c.DataAsString()
		if err != nil {
			return err
		}

		cmd.Println(message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
