package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// WriteCSV flattens a snapshot into one table with a leading type column.
// Optional fields render as empty cells and list fields join on "; ".
func WriteCSV(w io.Writer, snap *Snapshot) error {
	cw := csv.NewWriter(w)

	header := []string{"type", "id", "name", "detail", "category", "year", "version"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, c := range snap.Conditions {
		if err := cw.Write([]string{
			"condition", c.ID.String(), c.Name, c.Description,
			strings.Join(c.Symptoms, "; "), "", strconv.Itoa(c.Version),
		}); err != nil {
			return err
		}
	}
	for _, m := range snap.Medications {
		if err := cw.Write([]string{
			"medication", m.ID.String(), m.Name, strVal(m.Description),
			m.ClassName, "", strconv.Itoa(m.Version),
		}); err != nil {
			return err
		}
	}
	for _, r := range snap.References {
		if err := cw.Write([]string{
			"reference", r.ID.String(), r.Title, strVal(r.Authors),
			strVal(r.Publication), intVal(r.Year), "",
		}); err != nil {
			return err
		}
	}
	for _, g := range snap.Guidelines {
		if err := cw.Write([]string{
			"guideline", g.ID.String(), g.Title, strVal(g.Summary),
			g.Organization, strconv.Itoa(g.Year), strconv.Itoa(g.Version),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intVal(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
