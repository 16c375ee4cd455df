package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cacildafilmes/cacilda/internal/domain"
	"github.com/cacildafilmes/cacilda/internal/repository"
	"github.com/cacildafilmes/cacilda/internal/service"
)

func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the knowledge base",
		Long:  "List and add the company and portfolio facts that ground chat answers",
	}

	cmd.AddCommand(knowledgeListCmd())
	cmd.AddCommand(knowledgeAddCmd())

	return cmd
}

func knowledgeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every fact",
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

			svc := service.NewKnowledgeService(repository.NewKnowledgeRepository(rt.pool, rt.tables), rt.logger)
			items, err := svc.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list knowledge: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == outputJSON {
				data := make([]map[string]interface{}, len(items))
				for i, item := range items {
					data[i] = map[string]interface{}{
						"id":         item.ID,
						"type":       item.Type,
						"content":    item.Content,
						"created_at": item.CreatedAt,
					}
				}
				return printJSON(out, data)
			}

			if len(items) == 0 {
				fmt.Fprintf(out, "No knowledge found in %s\n", rt.tables.Knowledge)
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "  %d [%s] %s\n", item.ID, item.Type, firstLine(item.Content))
			}
			return nil
		},
	}

	addOutputFlag(cmd)
	return cmd
}

func knowledgeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <company_info|portfolio_info> <content>",
		Short: "Add a fact to the knowledge base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := service.NewKnowledgeService(repository.NewKnowledgeRepository(rt.pool, rt.tables), rt.logger)
			item, err := svc.Add(ctx, domain.KnowledgeType(args[0]), args[1])
			if err != nil {
				return fmt.Errorf("failed to add knowledge: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Knowledge added: id %d (%s)\n", item.ID, item.Type)
			return nil
		},
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	const limit = 80
	if r := []rune(line); len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return line
}
