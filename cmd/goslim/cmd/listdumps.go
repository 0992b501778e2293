package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goslim/internal/dump"
)

var listDumpsDir string

var listDumpsCmd = &cobra.Command{
	Use:   "list-dumps",
	Short: "List dump files in a directory",
	Long: `List-dumps shows the .sql files of a directory with their logical name,
size, and last modification time - the same discovery the slim pipeline uses
for its inputs.

Example:
  goslim list-dumps --dir ./backups`,
	RunE: runListDumps,
}

func init() {
	listDumpsCmd.Flags().StringVar(&listDumpsDir, "dir", ".",
		"Directory to scan for .sql dump files")

	rootCmd.AddCommand(listDumpsCmd)
}

func runListDumps(cmd *cobra.Command, args []string) error {
	files, err := dump.Discover(listDumpsDir)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Printf("No dump files found in %s\n", listDumpsDir)
		return nil
	}

	nameWidth := 4
	for _, f := range files {
		if w := runewidth.StringWidth(f.Name); w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Printf("%s  %10s  %s\n", runewidth.FillRight("NAME", nameWidth), "SIZE", "MODIFIED")
	for _, f := range files {
		fmt.Printf("%s  %10s  %s\n",
			runewidth.FillRight(f.Name, nameWidth),
			humanize.Bytes(uint64(f.SizeBytes)),
			f.ModTime.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Printf("\n%d dump file(s)\n", len(files))
	return nil
}
