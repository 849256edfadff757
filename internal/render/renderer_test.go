package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoquote/motoquote/internal/catalog"
	"github.com/motoquote/motoquote/internal/pricing"
	"github.com/motoquote/motoquote/internal/quotations"
)

func sampleSnapshot() quotations.Snapshot {
	ref := 100000.0
	return quotations.Snapshot{
		Number: "Q-20260314103045-ABCD",
		Status: quotations.StatusDraft,
		Customer: quotations.CustomerSnapshot{
			ID: 1, FullName: "Asha Rao", PrimaryPhone: "9876500000", Locality: "Jayanagar",
		},
		Branch: quotations.BranchSnapshot{
			ID: 1, Name: "South Branch", Address: "12 Hosur Road", Phone: "080-4455", GSTIN: "29AAAAA0000A1Z5",
		},
		CreatedBy: quotations.CreatorSnapshot{UserID: 5, Name: "Asha Rao"},
		Models: []quotations.ModelQuote{
			{
				ModelID: 10, ModelName: "X1", Powertrain: catalog.PowertrainICE, Series: "X",
				ReferencePrice: &ref, IsBaseModel: true,
				Prices: []pricing.ResolvedPrice{
					{HeaderID: 1, HeaderKey: "Ex-Showroom", CategoryKey: "Showroom", Priority: 1, Value: 100000},
					{HeaderID: 2, HeaderKey: "RTO", CategoryKey: "Statutory", Priority: 2, Value: 8000},
				},
			},
		},
		Offers:           []catalog.Offer{{ID: 1, Title: "Festive exchange bonus"}},
		FinanceDocuments: []catalog.FinanceDocument{{ID: 1, Name: "Aadhaar card"}},
		Terms:            []catalog.Term{{ID: 1, Content: "Prices valid for 7 days."}},
		CreatedAt:        time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC),
	}
}

func TestBuildHTML(t *testing.T) {
	store, err := NewStore(t.TempDir(), "http://docs.local/quotations")
	require.NoError(t, err)
	r, err := NewRenderer(NewClient("http://gotenberg:3000"), store)
	require.NoError(t, err)

	html, err := r.BuildHTML(sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, html, "Q-20260314103045-ABCD")
	assert.Contains(t, html, "Asha Rao")
	assert.Contains(t, html, "South Branch")
	assert.Contains(t, html, "Ex-Showroom")
	assert.Contains(t, html, "₹1,00,000")
	assert.Contains(t, html, "Festive exchange bonus")
	assert.Contains(t, html, "Prices valid for 7 days.")
	assert.Contains(t, html, "14 March 2026")
}

func TestFormatINRGrouping(t *testing.T) {
	assert.Equal(t, "₹1,00,000", formatINR(100000))
	assert.Equal(t, "₹8,000", formatINR(8000))
	assert.Equal(t, "₹1,23,456.5", formatINR(123456.50))
}

func TestStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "http://docs.local/quotations/")
	require.NoError(t, err)

	url, err := store.Save("Q-20260314103045-ABCD", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "http://docs.local/quotations/Q-20260314103045-ABCD.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "Q-20260314103045-ABCD.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
