/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/codec"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <file> <chunk-type> <message> [output]",
	Short: "Hide a message in a new chunk",
	Long: `Insert a chunk carrying message into the PNG file, just before IEND.
The file is rewritten in place unless an output path is given.

Example:
  pngme encode cat.png ruSt "This is a secret message"
  pngme encode cat.png ruSt "This is a secret message" secret-cat.png`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseChunkType(args[1])
		if err != nil {
			return err
		}

		p, err := loadImage(args[0])
		if err != nil {
			return err
		}

		c := codec.NewChunk(t, []byte(args[2]))
		p.InsertBeforeTerminator(c)

		output := args[0]
		if len(args) == 4 {
			output = args[3]
		}
		if err := saveImage(p, output, output == args[0]); err != nil {
			return err
		}

		cmd.Printf("Encoded %s into %s\n", c, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
