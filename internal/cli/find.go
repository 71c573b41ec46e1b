package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func (a *app) newFindCmd() *cobra.Command {
	var (
		opts         types.FindOptions
		hasReference string
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search saved objects",
		Long: `Find lists saved objects visible in the namespace, filtered by type,
text search, workspace and reference.

Example:
  savedobjects find --type dashboard --search sales*
  savedobjects find --namespaces '*' --sort-field updated_at --sort-order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hasReference != "" {
				var ref types.Reference
				if err := json.Unmarshal([]byte(hasReference), &ref); err != nil {
					return fmt.Errorf("invalid --has-reference: %w", err)
				}
				opts.HasReference = &ref
			}
			return a.withSession(func(s *session) error {
				resp, err := s.client.Find(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return a.printFind(cmd.OutOrStdout(), resp)
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.Type, "type", "t", nil, "types to include (default: all registered)")
	f.StringVarP(&opts.Search, "search", "s", "", "case-insensitive text to match in attributes")
	f.StringSliceVar(&opts.SearchFields, "search-fields", nil, "restrict search to these attributes")
	f.IntVar(&opts.Page, "page", types.DefaultPage, "page number")
	f.IntVar(&opts.PerPage, "per-page", types.DefaultPerPage, "results per page")
	f.StringVar(&opts.SortField, "sort-field", "", "updated_at, type or id")
	f.StringVar(&opts.SortOrder, "sort-order", "", "asc or desc")
	f.StringVar(&hasReference, "has-reference", "", `reference filter as JSON, e.g. {"type":"index-pattern","id":"ip1"}`)
	f.StringSliceVar(&opts.Namespaces, "namespaces", nil, "namespaces to search, * for all")
	f.StringSliceVar(&opts.Workspaces, "workspaces", nil, "only objects in these workspaces")
	return cmd
}
