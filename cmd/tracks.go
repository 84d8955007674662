package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"TrackDrop/model"
	"TrackDrop/repository"

	"github.com/spf13/cobra"
)

var tracksFile string

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the tracks in the metadata file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if tracksFile == "" {
			tracksFile = cfg.MetadataFile
		}

		tracks, err := repository.NewJSONFilePersister(tracksFile).Load()
		if err != nil {
			return err
		}
		return printTracks(cmd.OutOrStdout(), tracks)
	},
}

func printTracks(out io.Writer, tracks []model.Track) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLIKES\tCOMMENTS\tTITLE")
	for _, t := range tracks {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", t.ID, t.Likes, len(t.Comments), t.Title)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(tracksCmd)
	tracksCmd.Flags().StringVarP(&tracksFile, "file", "f", "", "metadata file to read (defaults to METADATA_FILE)")
}
