package phenotable

import "fmt"

// TableNotFoundError means the requested phenotype has no table for the
// population. Nothing was read or written.
type TableNotFoundError struct {
	Ref
	Location string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("Phenotype %s is not in the All of Us database for population %s (no table at %s); enter a valid phenotype ID", e.Phecode, e.Population, e.Location)
}

// ExportNotVerifiedError means the export was written but did not show up in
// a listing of its destination folder afterwards.
type ExportNotVerifiedError struct {
	Path   string
	Folder string
}

func (e *ExportNotVerifiedError) Error() string {
	return fmt.Sprintf("File '%s' was not found in %s", e.Path, e.Folder)
}

// DestinationExistsError is returned instead of overwriting a previous export
// when the exporter is asked not to clobber.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("File '%s' already exists; refusing to overwrite it", e.Path)
}
