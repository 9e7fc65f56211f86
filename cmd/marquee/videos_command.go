package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect and manage videos",
	}

	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosAddCommand(ctx))
	videosCmd.AddCommand(newVideosStateCommand(ctx))
	videosCmd.AddCommand(newVideosPlaylistsCommand(ctx))

	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var (
		query     string
		state     string
		published bool
		limit     int
		offset    int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos with the playlists they appear in",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.ListFilter{Query: query, Limit: limit, Offset: offset}
			if state != "" {
				parsed, err := models.ParsePublishState(state)
				if err != nil {
					return err
				}
				filter.State = &parsed
			}
			if published {
				now := time.Now().UTC()
				filter.PublishedAt = &now
			}

			return ctx.withCatalog(cmd, func(svc services) error {
				rows, total, err := svc.videos.Rows(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos found")
					return nil
				}
				table := renderTable(
					[]string{"Title", "ID", "State", "Video ID", "Published", "Playlists"},
					buildVideoRows(rows),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d videos\n", len(rows), total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by title substring")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state (draft or publish)")
	cmd.Flags().BoolVar(&published, "published", false, "Only videos visible right now")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (0 uses the configured default)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func buildVideoRows(rows []catalog.VideoRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Title,
			row.ID.String(),
			row.State.String(),
			row.ExternalID,
			yesNo(row.IsPublished),
			strconv.Itoa(len(row.PlaylistIDs)),
		})
	}
	return out
}

func newVideosAddCommand(ctx *commandContext) *cobra.Command {
	var (
		externalID string
		slug       string
		state      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a video to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return ctx.withCatalog(cmd, func(svc services) error {
				video, err := svc.videos.Create(cmd.Context(), catalog.CreateVideoInput{
					Title:      title,
					ExternalID: externalID,
					Slug:       slug,
					State:      models.PublishState(state),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added video %s (%s)\n", video.ID, video.Slug)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&externalID, "video-id", "", "Hosted asset reference")
	cmd.Flags().StringVar(&slug, "slug", "", "Slug (derived from the title when empty)")
	cmd.Flags().StringVar(&state, "state", "", "Initial state (draft or publish)")
	_ = cmd.MarkFlagRequired("video-id")
	return cmd
}

func newVideosStateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "state <id> <draft|publish>",
		Short: "Change the publish state of a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid video id %q: %w", args[0], err)
			}
			state, err := models.ParsePublishState(args[1])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd, func(svc services) error {
				video, err := svc.videos.Update(cmd.Context(), id, catalog.VideoPatch{State: &state})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video %s is now %s\n", video.ID, video.State.String())
				if video.PublishTimestamp != nil {
					fmt.Fprintf(out, "Publish timestamp: %s\n", video.PublishTimestamp.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newVideosPlaylistsCommand(ctx *commandContext) *cobra.Command {
	var featured bool

	cmd := &cobra.Command{
		Use:   "playlists <id>",
		Short: "List the playlists that feature or contain a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid video id %q: %w", args[0], err)
			}
			return ctx.withCatalog(cmd, func(svc services) error {
				lookup := svc.videos.Playlists
				if featured {
					lookup = svc.videos.FeaturedPlaylists
				}
				playlists, err := lookup(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(playlists) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Video is not in any playlist")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPlaylists(playlists))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&featured, "featured", false, "Only playlists featuring the video")
	return cmd
}
