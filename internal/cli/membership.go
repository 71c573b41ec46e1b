package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func (a *app) newNamespacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "namespaces",
		Short: "Share multi-namespace objects across namespaces",
	}

	var version string
	add := &cobra.Command{
		Use:   "add <type> <id> <namespace>...",
		Short: "Add an object to namespaces",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				resp, err := s.client.AddToNamespaces(cmd.Context(), args[0], args[1], args[2:],
					types.AddToNamespacesOptions{Version: version})
				if err != nil {
					return err
				}
				return a.printNamespaces(cmd, args[0], args[1], resp)
			})
		},
	}
	add.Flags().StringVar(&version, "version", "", "expected current version")

	var removeVersion string
	remove := &cobra.Command{
		Use:   "remove <type> <id> <namespace>...",
		Short: "Remove an object from namespaces; removing the last one deletes it",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				resp, err := s.client.DeleteFromNamespaces(cmd.Context(), args[0], args[1], args[2:],
					types.DeleteFromNamespacesOptions{Version: removeVersion})
				if err != nil {
					return err
				}
				return a.printNamespaces(cmd, args[0], args[1], resp)
			})
		},
	}
	remove.Flags().StringVar(&removeVersion, "version", "", "expected current version")

	purge := &cobra.Command{
		Use:   "purge <namespace>",
		Short: "Delete every object that lives in a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				n, err := s.client.DeleteByNamespace(cmd.Context(), args[0], types.DeleteByNamespaceOptions{})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d objects from namespace %s\n", n, args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, remove, purge)
	return cmd
}

func (a *app) printNamespaces(cmd *cobra.Command, typ, id string, resp *types.NamespacesResponse) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	if len(resp.Namespaces) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s deleted (no namespaces left)\n", typ, id)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s/%s namespaces: %s\n", typ, id, strings.Join(resp.Namespaces, ", "))
	return nil
}

func (a *app) newWorkspacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Assign objects to workspaces",
	}

	add := &cobra.Command{
		Use:   "add <type> <id> <workspace>...",
		Short: "Add an object to workspaces",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				obj, err := s.client.AddToWorkspaces(cmd.Context(), args[0], args[1], args[2:], types.AddToWorkspacesOptions{})
				if err != nil {
					return err
				}
				return a.printObject(cmd.OutOrStdout(), obj)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <type> <id> <workspace>...",
		Short: "Remove an object from workspaces",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				obj, err := s.client.DeleteFromWorkspaces(cmd.Context(), args[0], args[1], args[2:], types.DeleteFromWorkspacesOptions{})
				if err != nil {
					return err
				}
				return a.printObject(cmd.OutOrStdout(), obj)
			})
		},
	}

	purge := &cobra.Command{
		Use:   "purge <workspace>",
		Short: "Delete every object assigned to a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *session) error {
				n, err := s.client.DeleteByWorkspace(cmd.Context(), args[0], types.DeleteByWorkspaceOptions{})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d objects in workspace %s\n", n, args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, remove, purge)
	return cmd
}
