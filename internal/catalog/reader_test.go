package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHeader = "sku_id,Name,brand,product_discount_category,Classifier 1,classifier 2,classifier 3\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead_ValidCSV(t *testing.T) {
	content := validHeader +
		"CER0576,CeraVe Moisturizing Cream,CeraVe,FMCG,PERSONAL CARE,SKIN CARE,BODY CARE\n" +
		"NEU0830,Neurobion Forte Tablet,Neurobion,FMCG,NUTRITION & METABOLISM,VITAMINS AND MINERALS,VITAMINS AND MINERALS\n"

	items, err := Read(writeInput(t, "skus.csv", content), Options{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "CER0576", items[0].ID)
	assert.Equal(t, "CeraVe Moisturizing Cream", items[0].Name)
	assert.Equal(t, "CeraVe", items[0].Brand)
	assert.Equal(t, "PERSONAL CARE", items[0].Category)
	assert.Equal(t, "SKIN CARE", items[0].SubCategory)
	assert.Equal(t, "BODY CARE", items[0].SpecificType)
	assert.Equal(t, "NEU0830", items[1].ID)
}

func TestRead_TSV(t *testing.T) {
	content := "sku_id\tName\tbrand\tproduct_discount_category\tClassifier 1\tclassifier 2\tclassifier 3\n" +
		"EVI0105\tEvion 400mg Capsule\tEvion\tFMCG\tNUTRITION & METABOLISM\tVITAMINS AND MINERALS\tVITAMINS AND MINERALS\n"

	items, err := Read(writeInput(t, "skus.tsv", content), Options{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "EVI0105", items[0].ID)
}

func TestRead_MissingColumns(t *testing.T) {
	content := "sku_id,Name,brand\nX1,Thing,Acme\n"

	items, err := Read(writeInput(t, "skus.csv", content), Options{})
	assert.Nil(t, items)
	require.Error(t, err)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "product_discount_category")
	assert.Contains(t, err.Error(), "Classifier 1")
}

func TestRead_FMCGFilter(t *testing.T) {
	content := validHeader +
		"A1,Aspirin,Acme,Pharma,PAIN,TABLETS,TABLETS\n" +
		"B2,Biscuits,Britannia,FMCG,FOOD,SNACKS,BISCUITS\n"

	items, err := Read(writeInput(t, "skus.csv", content), Options{FMCGOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B2", items[0].ID)

	// Without the filter both rows survive
	items, err = Read(writeInput(t, "skus2.csv", content), Options{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRead_InvalidRow(t *testing.T) {
	content := validHeader + ",No SKU ID,Acme,FMCG,A,B,C\n"

	_, err := Read(writeInput(t, "skus.csv", content), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestRead_FileNotFound(t *testing.T) {
	_, err := Read("/nonexistent/skus.csv", Options{})
	require.Error(t, err)

	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
