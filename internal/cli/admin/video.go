package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cacildafilmes/cacilda/internal/repository"
	"github.com/cacildafilmes/cacilda/internal/service"
)

func VideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Manage the portfolio catalog",
		Long:  "List, add and delete the videos the chat assistant can recommend",
	}

	cmd.AddCommand(videoListCmd())
	cmd.AddCommand(videoAddCmd())
	cmd.AddCommand(videoDeleteCmd())

	return cmd
}

func videoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every video",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := service.NewVideoService(repository.NewVideoRepository(rt.pool, rt.tables), rt.logger)
			videos, err := svc.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list videos: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == outputJSON {
				data := make([]map[string]interface{}, len(videos))
				for i, v := range videos {
					data[i] = map[string]interface{}{
						"id":          v.ID,
						"vimeo_id":    v.VimeoID,
						"title":       v.Title,
						"client":      v.Client,
						"production":  v.Production,
						"creation":    v.Creation,
						"category":    v.Category,
						"description": v.Description,
						"created_at":  v.CreatedAt,
					}
				}
				return printJSON(out, data)
			}

			if len(videos) == 0 {
				fmt.Fprintf(out, "No videos found in %s\n", rt.tables.Videos)
				return nil
			}
			fmt.Fprintf(out, "Videos (%s):\n", rt.tables.Videos)
			for _, v := range videos {
				fmt.Fprintf(out, "  %d: %s [%s] vimeo=%s\n", v.ID, v.Title, v.Category, v.VimeoID)
			}
			return nil
		},
	}

	addOutputFlag(cmd)
	return cmd
}

func videoAddCmd() *cobra.Command {
	var input service.UploadInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a video to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if missing := missingFlags(cmd.Flags(), "title", "vimeo"); len(missing) > 0 {
				return fmt.Errorf("required flag(s) not set: %s", strings.Join(missing, ", "))
			}

			ctx := context.Background()
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := service.NewVideoService(repository.NewVideoRepository(rt.pool, rt.tables), rt.logger)
			video, err := svc.Upload(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to add video: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Video added: %s (id %d, vimeo %s)\n", video.Title, video.ID, video.VimeoID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Video title")
	cmd.Flags().StringVar(&input.VimeoLink, "vimeo", "", "Vimeo link or id")
	cmd.Flags().StringVar(&input.Client, "client", "", "Client name")
	cmd.Flags().StringVar(&input.Production, "production", "", "Production credit")
	cmd.Flags().StringVar(&input.Creation, "creation", "", "Creation credit")
	cmd.Flags().StringVar(&input.Category, "category", "", "Category, matched by #category in chat")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description")

	return cmd
}

func videoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a video from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid video id %q", args[0])
			}

			ctx := context.Background()
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := service.NewVideoService(repository.NewVideoRepository(rt.pool, rt.tables), rt.logger)
			if err := svc.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete video: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Video %d deleted\n", id)
			return nil
		},
	}
}
