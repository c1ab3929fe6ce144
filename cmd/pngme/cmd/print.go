package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/png"
	"github.com/ssargent/pngme/pkg/store"
)

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "List the chunks of a PNG file",
	Long: `List every chunk of a PNG file with its offset, size, CRC and property
bits. Chunks are read one at a time, so the chunks before a damaged one are
still listed.

Example:
  pngme print cat.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := store.OpenChunkReader(store.ChunkReaderConfig{FilePath: args[0]})
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer reader.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "OFFSET\tTYPE\tLENGTH\tCRC\tPROPERTIES")

		p := png.New()
		it := reader.Iterator()
		start := reader.Offset()
		for it.Next() {
			c := it.Chunk()
			p.Append(c)
			fmt.Fprintf(tw, "%d\t%s\t%d\t%08x\t%s\n", start, describeType(c.Type), c.Length(), c.CRC(), describeProperties(c.Type))
			start = reader.Offset()
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if err := it.Err(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		summary := fmt.Sprintf("%d chunks, %s", p.Len(), humanize.IBytes(uint64(reader.Offset())))
		if err := p.Validate(); err != nil {
			summary += fmt.Sprintf(" (%v)", err)
		}
		cmd.Println(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
