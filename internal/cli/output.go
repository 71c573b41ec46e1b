package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

type rawObject = types.SavedObject[json.RawMessage]

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printObject writes one object as JSON or as a short text block.
func (a *app) printObject(w io.Writer, obj *rawObject) error {
	if a.flags.jsonMode {
		return printJSON(w, obj)
	}
	fmt.Fprintf(w, "%s/%s\n", obj.Type, obj.ID)
	fmt.Fprintf(w, "  version:    %s\n", obj.Version)
	if len(obj.Namespaces) > 0 {
		fmt.Fprintf(w, "  namespaces: %s\n", strings.Join(obj.Namespaces, ", "))
	}
	if len(obj.Workspaces) > 0 {
		fmt.Fprintf(w, "  workspaces: %s\n", strings.Join(obj.Workspaces, ", "))
	}
	if obj.UpdatedAt != "" {
		fmt.Fprintf(w, "  updated_at: %s\n", obj.UpdatedAt)
	}
	fmt.Fprintf(w, "  attributes: %s\n", string(obj.Attributes))
	return nil
}

// printObjects writes a table of objects, marking failed bulk entries.
func (a *app) printObjects(w io.Writer, objs []rawObject) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tVERSION\tNAMESPACES\tSTATUS")
	for _, o := range objs {
		status := "ok"
		if o.Error != nil {
			status = string(o.Error.Kind) + ": " + o.Error.Message
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.Type, o.ID, o.Version, strings.Join(o.Namespaces, ","), status)
	}
	tw.Flush()
}

func (a *app) printFind(w io.Writer, resp *types.FindResponse[json.RawMessage]) error {
	if a.flags.jsonMode {
		return printJSON(w, resp)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID\tSCORE\tUPDATED")
	for _, r := range resp.SavedObjects {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", r.Type, r.ID, r.Score, r.UpdatedAt)
	}
	tw.Flush()
	fmt.Fprintf(w, "page %d, %d of %d\n", resp.Page, len(resp.SavedObjects), resp.Total)
	return nil
}
