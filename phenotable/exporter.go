package phenotable

import (
	"context"
	"fmt"

	"github.com/carbocation/pfx"
	pwas "github.com/ckrueger2/mesa-pwas"
	"github.com/ckrueger2/mesa-pwas/objstore"
	log "github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v3"
)

// DefaultPreviewRows matches the number of rows Hail shows by default.
const DefaultPreviewRows = 20

// Exporter copies one phenotype table from Tables into a TSV on Objects.
// Every remote operation is attempted exactly once.
type Exporter struct {
	Tables  Store
	Objects objstore.Store

	// Bucket is the destination root, e.g. the workspace bucket. It is not
	// validated; an empty Bucket yields paths beginning with /data/.
	Bucket string

	// DropKey leaves the key columns (locus, alleles) out of the export.
	DropKey bool

	// NoClobber refuses to replace an existing export. By default a second
	// export of the same phenotype overwrites the first.
	NoClobber bool

	PreviewRows int
}

// Destination is the deterministic export path for ref.
func (e *Exporter) Destination(ref Ref) string {
	return pwas.FullExportPath(e.Bucket, ref.Population, ref.Phecode)
}

// Export runs the full pull: existence check, read, column negotiation, write,
// and verification of the written file.
func (e *Exporter) Export(ctx context.Context, ref Ref) (*Report, error) {
	source := e.Tables.Location(ref)

	exists, err := e.Tables.Exists(ctx, ref)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("checking for %s: %w", source, err))
	}
	if !exists {
		return nil, &TableNotFoundError{Ref: ref, Location: source}
	}
	log.Printf("Phenotype %s is in the All of Us database (%s)", ref.Phecode, source)

	dest := e.Destination(ref)
	if e.NoClobber {
		if exists, err := e.Objects.Exists(ctx, dest); err != nil {
			return nil, pfx.Err(err)
		} else if exists {
			return nil, &DestinationExistsError{Path: dest}
		}
	}

	table, err := e.Tables.Open(ctx, ref)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("opening %s: %w", source, err))
	}
	defer table.Close()

	sel := Negotiate(table.Schema, e.DropKey)
	if len(sel.Synthesized) > 0 {
		log.Printf("%s has no %v column(s); exporting them as missing", source, sel.Synthesized)
	}

	report := &Report{
		Ref:         ref,
		Source:      source,
		Destination: dest,
		Columns:     sel.Columns,
		Synthesized: sel.Synthesized,
		Globals:     table.Globals,
	}

	previewRows := e.PreviewRows
	pvals := newPvalueCollector(sel)
	observe := func(fields []string) {
		if len(report.Preview) < previewRows {
			report.Preview = append(report.Preview, append([]string(nil), fields...))
		}
		if pvals != nil {
			pvals.observe(fields)
		}
	}

	w, err := e.Objects.NewWriter(ctx, dest)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("creating %s: %w", dest, err))
	}

	report.Rows, err = WriteTSV(w, table.Rows, sel, observe)
	if err != nil {
		objstore.Discard(w)
		return nil, pfx.Err(fmt.Errorf("writing %s: %w", dest, err))
	}
	if err := w.Close(); err != nil {
		return nil, pfx.Err(fmt.Errorf("committing %s: %w", dest, err))
	}

	if ok, err := objstore.Listed(ctx, e.Objects, dest); err != nil {
		return nil, pfx.Err(fmt.Errorf("verifying %s: %w", dest, err))
	} else if !ok {
		return nil, &ExportNotVerifiedError{Path: dest, Folder: objstore.Folder(dest)}
	}
	log.Println("Full file successfully saved to bucket.")

	if pvals != nil {
		if lambda, err := LambdaGC(pvals.pvalues); err == nil {
			report.LambdaGC = null.FloatFrom(lambda)
		} else {
			log.Warnln("Could not compute lambda GC:", err)
		}
	}

	return report, nil
}
