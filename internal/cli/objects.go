package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func (a *app) newCreateCmd() *cobra.Command {
	var (
		attributes        string
		overwrite         bool
		version           string
		workspaces        []string
		initialNamespaces []string
	)
	cmd := &cobra.Command{
		Use:   "create <type> [id]",
		Short: "Create a saved object",
		Long: `Create stores a new saved object. The id is generated when omitted.

Attributes are given inline, as @file, or as - for stdin.

Example:
  savedobjects create dashboard d1 --attributes '{"title":"Sales"}'
  savedobjects create index-pattern --initial-namespaces default,space-a --attributes @ip.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := readAttributes(attributes, cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := types.CreateOptions{
				Overwrite:         overwrite,
				Version:           version,
				Workspaces:        workspaces,
				InitialNamespaces: initialNamespaces,
			}
			if len(args) == 2 {
				opts.ID = args[1]
			}
			return a.withSession(func(s *session) error {
				obj, err := s.client.Create(cmd.Context(), args[0], attrs, opts)
				if err != nil {
					return err
				}
				return a.printObject(cmd.OutOrStdout(), obj)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&attributes, "attributes", "a", "", "attributes JSON, @file or - for stdin")
	f.BoolVar(&overwrite, "overwrite", false, "replace an existing object with the same id")
	f.StringVar(&version, "version", "", "expected version of the object being overwritten")
	f.StringSliceVar(&workspaces, "workspaces", nil, "workspaces to assign")
	f.StringSliceVar(&initialNamespaces, "initial-namespaces", nil, "namespaces of a multi-namespace object")
	return cmd
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Get a saved object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				obj, err := s.client.Get(cmd.Context(), args[0], args[1], types.BaseOptions{})
				if err != nil {
					return err
				}
				return a.printObject(cmd.OutOrStdout(), obj)
			})
		},
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	var (
		attributes string
		version    string
		workspaces []string
	)
	cmd := &cobra.Command{
		Use:   "update <type> <id>",
		Short: "Replace the attributes of a saved object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := readAttributes(attributes, cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := types.UpdateOptions{Version: version}
			if cmd.Flags().Changed("workspaces") {
				opts.Workspaces = workspaces
			}
			return a.withSession(func(s *session) error {
				obj, err := s.client.Update(cmd.Context(), args[0], args[1], attrs, opts)
				if err != nil {
					return err
				}
				return a.printObject(cmd.OutOrStdout(), obj)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&attributes, "attributes", "a", "", "attributes JSON, @file or - for stdin")
	f.StringVar(&version, "version", "", "expected current version")
	f.StringSliceVar(&workspaces, "workspaces", nil, "replace the workspaces")
	return cmd
}

func (a *app) newDeleteCmd() *cobra.Command {
	var (
		force   bool
		version string
	)
	cmd := &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a saved object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				err := s.client.Delete(cmd.Context(), args[0], args[1], types.DeleteOptions{Force: force, Version: version})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s/%s\n", args[0], args[1])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "delete a multi-namespace object shared with other namespaces")
	cmd.Flags().StringVar(&version, "version", "", "expected current version")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var (
		overwrite  bool
		workspaces []string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create saved objects from a JSON array file",
		Long: `Import reads a JSON array of objects ({type, id, attributes, ...}) and
creates them in one batch. Each object succeeds or fails on its own.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var objects []types.BulkCreateObject[json.RawMessage]
			if err := json.Unmarshal(data, &objects); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}
			return a.withSession(func(s *session) error {
				resp, err := s.client.BulkCreate(cmd.Context(), objects, types.BulkCreateOptions{
					Overwrite:  overwrite,
					Workspaces: workspaces,
				})
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				a.printObjects(cmd.OutOrStdout(), resp.SavedObjects)
				if failed := len(resp.Errors()); failed > 0 {
					return fmt.Errorf("%d of %d objects failed to import", failed, len(objects))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing objects with the same id")
	cmd.Flags().StringSliceVar(&workspaces, "workspaces", nil, "workspaces for objects that name none")
	return cmd
}

func (a *app) newCheckConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-conflicts <type/id>...",
		Short: "Report which objects cannot be created as is",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objects := make([]types.CheckConflictsObject, 0, len(args))
			for _, arg := range args {
				typ, id, ok := strings.Cut(arg, "/")
				if !ok || typ == "" || id == "" {
					return fmt.Errorf("invalid object %q (expected type/id)", arg)
				}
				objects = append(objects, types.CheckConflictsObject{Type: typ, ID: id})
			}
			return a.withSession(func(s *session) error {
				resp, err := s.client.CheckConflicts(cmd.Context(), objects, types.CheckConflictsOptions{})
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Errors) == 0 {
					fmt.Fprintln(out, "no conflicts")
					return nil
				}
				for _, e := range resp.Errors {
					label := "conflict"
					if types.IsUnresolvableConflict(e.Error) {
						label = "unresolvable conflict"
					} else if !types.IsConflict(e.Error) {
						label = e.Error.Message
					}
					fmt.Fprintf(out, "%s/%s: %s\n", e.Type, e.ID, label)
				}
				return nil
			})
		},
	}
}
