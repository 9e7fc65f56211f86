package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stwalsh4118/marquee/internal/models"
)

func newShowsCommand(ctx *commandContext) *cobra.Command {
	showsCmd := &cobra.Command{
		Use:   "shows",
		Short: "Inspect shows (playlists without a parent)",
	}

	showsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(svc services) error {
				shows, err := svc.playlists.ListShows(cmd.Context())
				if err != nil {
					return err
				}
				if len(shows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No shows found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPlaylists(shows))
				return nil
			})
		},
	})

	showsCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a show and its seasons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid show id %q: %w", args[0], err)
			}
			return ctx.withCatalog(cmd, func(svc services) error {
				show, err := svc.playlists.GetShow(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s) [%s]\n", show.Title, show.Slug, show.State)
				if len(show.Seasons) == 0 {
					fmt.Fprintln(out, "No seasons")
					return nil
				}
				fmt.Fprintln(out, renderPlaylists(show.Seasons))
				return nil
			})
		},
	})

	return showsCmd
}

func newSeasonsCommand(ctx *commandContext) *cobra.Command {
	seasonsCmd := &cobra.Command{
		Use:   "seasons",
		Short: "Inspect seasons (playlists with a parent)",
	}

	seasonsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List seasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd, func(svc services) error {
				seasons, err := svc.playlists.ListSeasons(cmd.Context())
				if err != nil {
					return err
				}
				if len(seasons) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No seasons found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPlaylists(seasons))
				return nil
			})
		},
	})

	seasonsCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a season and its videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid season id %q: %w", args[0], err)
			}
			return ctx.withCatalog(cmd, func(svc services) error {
				season, err := svc.playlists.GetSeason(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s) [%s]\n", season.Title, season.Slug, season.State)
				if len(season.Items) == 0 {
					fmt.Fprintln(out, "No videos")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Order", "Video", "Slug", "State"},
					buildItemRows(season.Items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	})

	return seasonsCmd
}

func renderPlaylists(playlists []*models.Playlist) string {
	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, []string{
			strconv.Itoa(p.Order),
			p.Title,
			p.ID.String(),
			p.Slug,
			p.State.String(),
			yesNo(p.Active),
		})
	}
	return renderTable(
		[]string{"Order", "Title", "ID", "Slug", "State", "Active"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func buildItemRows(items []*models.PlaylistItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title, slug, state := item.VideoID.String(), "", ""
		if item.Video != nil {
			title = item.Video.Title
			slug = item.Video.Slug
			state = item.Video.State.String()
		}
		rows = append(rows, []string{strconv.Itoa(item.Order), title, slug, state})
	}
	return rows
}
