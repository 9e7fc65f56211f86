package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/marquee/internal/ingest"
	"github.com/stwalsh4118/marquee/internal/models"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import hosted episodes into their shows and seasons",
		Long: `Reads one entry per line in the form "<video_id> <source name>" from the
file, or from stdin when no file is given. Blank lines and lines starting
with # are ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedState := models.StateDraft
			if state != "" {
				var err error
				parsedState, err = models.ParsePublishState(state)
				if err != nil {
					return err
				}
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				in = f
			}

			entries, err := readEntries(in)
			if err != nil {
				return err
			}

			return ctx.withCatalog(cmd, func(svc services) error {
				importer := ingest.NewImporter(svc.videos, svc.playlists)
				importer.State = parsedState

				results, err := importer.Import(cmd.Context(), entries)
				if len(results) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"Title", "Video ID", "Placed"},
						buildImportRows(results),
						[]columnAlignment{alignLeft, alignLeft, alignLeft},
					))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d videos\n", len(results))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "State for created videos and playlists (draft or publish)")
	return cmd
}

// readEntries parses "<video_id> <source>" lines
func readEntries(r io.Reader) ([]ingest.Entry, error) {
	var entries []ingest.Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		externalID, source, ok := strings.Cut(text, " ")
		source = strings.TrimSpace(source)
		if !ok || source == "" {
			return nil, fmt.Errorf("line %d: expected \"<video_id> <source>\"", line)
		}
		entries = append(entries, ingest.Entry{ExternalID: externalID, Source: source})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read import entries: %w", err)
	}
	return entries, nil
}

func buildImportRows(results []ingest.Result) [][]string {
	out := make([][]string, 0, len(results))
	for _, result := range results {
		ref := result.Reference
		placed := "-"
		switch {
		case ref.Placed():
			placed = ref.Show + " " + ref.Code()
		case ref.Show != "":
			placed = ref.Show
		}
		out = append(out, []string{result.Video.Title, result.Video.ExternalID, placed})
	}
	return out
}
