package cmd

import (
	"github.com/spf13/cobra"
)

// stashCmd represents the stash command
var stashCmd = &cobra.Command{
	Use:   "stash <file> <chunk-type>",
	Short: "Move a chunk out of a PNG file into the stash",
	Long: `Remove the first chunk of the given type from the file and keep it in
the local chunk stash. The printed id restores it later.

Example:
  pngme stash cat.png ruSt
  pngme restore other.png 2Zc9xGQGNyQ2yAvGq3rWoK8h1kP`,
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

		stash, err := container.Stash()
		if err != nil {
			return err
		}
		id, err := stash.Put(c)
		if err != nil {
			return err
		}

		if err := saveImage(p, args[0], true); err != nil {
			// keep the stash consistent with the untouched file
			if derr := stash.Delete(id); derr != nil {
				container.Logger().Error().Err(derr).Str("id", id.String()).Msg("failed to roll back stash entry")
			}
			return err
		}

		container.Logger().Info().Str("id", id.String()).Str("type", t.String()).Str("file", args[0]).Msg("stashed chunk")
		cmd.Println(id.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stashCmd)
}
