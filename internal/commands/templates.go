package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/plugsmith/plugsmith/internal/catalog"
)

// Templates lists the catalog: embedded templates plus any --catalog
// overrides.
func (c *Controller) Templates(ctx context.Context) error {
	cat, err := catalog.Load(c.Flags.Catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHAPE\tSLOTS\tDESCRIPTION")
	for _, tpl := range cat.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tpl.ID, tpl.Shape, slotSummary(tpl), tpl.Description)
	}
	return w.Flush()
}

// slotSummary renders the slot list as name:type pairs, required slots
// first.
func slotSummary(tpl *catalog.Template) string {
	names := make([]string, 0, len(tpl.Slots))
	for name := range tpl.Slots {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := tpl.Slots[names[i]], tpl.Slots[names[j]]
		if si.Required != sj.Required {
			return si.Required
		}
		return names[i] < names[j]
	})

	parts := make([]string, len(names))
	for i, name := range names {
		slot := tpl.Slots[name]
		part := fmt.Sprintf("%s:%s", name, slot.Type)
		if !slot.Required {
			part += "?"
		}
		parts[i] = part
	}
	return strings.Join(parts, " ")
}
