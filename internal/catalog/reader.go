package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/review-generator/internal/types"
)

// requiredColumns are the headers the input table must carry. Names match the
// upstream catalog export, including its inconsistent casing.
var requiredColumns = []string{
	"sku_id",
	"Name",
	"brand",
	"product_discount_category",
	"Classifier 1",
	"classifier 2",
	"classifier 3",
}

// Options controls catalog reading behavior.
type Options struct {
	// FMCGOnly drops rows whose product_discount_category is not "FMCG"
	// (excludes Pharma and private-label SKUs).
	FMCGOnly bool
}

var validate = validator.New()

// Read parses the input table at path into an ordered slice of WorkItems.
// CSV and TSV are supported; the delimiter is chosen by file extension.
// A missing required column or an unreadable file returns an *InputError.
func Read(path string, opts Options) ([]types.WorkItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Message: fmt.Sprintf("cannot open %s", path), Cause: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".tsv" || ext == ".txt" {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1 // ragged rows handled per-row below

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &InputError{Message: fmt.Sprintf("cannot parse %s", path), Cause: err}
	}
	if len(rows) == 0 {
		return nil, &InputError{Message: fmt.Sprintf("%s is empty", path)}
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	items := make([]types.WorkItem, 0, len(rows)-1)
	for i, row := range rows[1:] {
		item := types.WorkItem{
			ID:               field(row, index["sku_id"]),
			Name:             field(row, index["Name"]),
			Brand:            field(row, index["brand"]),
			DiscountCategory: field(row, index["product_discount_category"]),
			Category:         field(row, index["Classifier 1"]),
			SubCategory:      field(row, index["classifier 2"]),
			SpecificType:     field(row, index["classifier 3"]),
		}
		if err := validate.Struct(item); err != nil {
			return nil, &InputError{Message: fmt.Sprintf("row %d is invalid", i+2), Cause: err}
		}
		if opts.FMCGOnly && item.DiscountCategory != "FMCG" {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// headerIndex maps required column names to their positions, failing with a
// single error that names every missing column.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &InputError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
