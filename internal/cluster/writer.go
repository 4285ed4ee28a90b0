package cluster

import (
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/complexport/internal/export"
)

// Columns of the cluster TSV.
var Columns = []string{
	"id",
	"uniprot_a",
	"uniprot_b",
	"gene_a",
	"gene_b",
	"interaction_acs",
	"publications",
	"detection_methods",
	"interaction_types",
	"evidence_count",
}

// Row renders one binary interaction as a sanitized cluster row.
func Row(bi *BinaryInteraction) (export.Row, error) {
	cells := make(export.Row, 0, len(Columns))
	for _, c := range []struct {
		column string
		value  string
	}{
		{"id", strconv.Itoa(bi.ID)},
		{"uniprot_a", bi.UniprotA},
		{"uniprot_b", bi.UniprotB},
		{"gene_a", bi.GeneA},
		{"gene_b", bi.GeneB},
	} {
		v, err := export.Sanitize(c.column, c.value)
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
	for _, c := range []struct {
		column string
		values []string
	}{
		{"interaction_acs", bi.InteractionAcs},
		{"publications", bi.Publications},
		{"detection_methods", bi.DetectionMethods},
		{"interaction_types", bi.InteractionTypes},
	} {
		v, err := export.JoinField(c.column, c.values, "|")
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
	return append(cells, strconv.Itoa(bi.EvidenceCount())), nil
}

// WriteClusterTSV writes the header and one row per interaction in id
// order. Interactions with unexportable fields are left out and their ids
// returned; any write error is fatal.
func WriteClusterTSV(w io.Writer, c *Cluster) (skipped []int, err error) {
	tw, err := export.NewTSVWriter(w, Columns)
	if err != nil {
		return nil, err
	}
	for _, bi := range c.Interactions {
		row, err := Row(bi)
		if export.IsFieldError(err) {
			skipped = append(skipped, bi.ID)
			continue
		}
		if err != nil {
			return skipped, err
		}
		if err := tw.WriteRow(row); err != nil {
			return skipped, fmt.Errorf("write interaction %d: %w", bi.ID, err)
		}
		if err := tw.Flush(); err != nil {
			return skipped, fmt.Errorf("write interaction %d: %w", bi.ID, err)
		}
	}
	return skipped, tw.Flush()
}
