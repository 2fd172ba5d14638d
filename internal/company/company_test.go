package company

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/rules"
)

func strPtr(s string) *string { return &s }

func norm(t *testing.T, set *rules.Set, name, title, url, location, desc string) model.NormalizedListing {
	t.Helper()
	raw := model.RawListing{Title: title, URL: url, LocationRaw: location, Description: desc}
	if name != "" {
		raw.CompanyNameRaw = strPtr(name)
	}
	return normalize.Normalize(raw, set)
}

func TestExtractContacts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"dashed phone", "call 713-555-0142 today", []string{"+17135550142"}},
		{"parenthesized phone", "call (713) 555-0142", []string{"+17135550142"}},
		{"country code", "call +1 713.555.0142", []string{"+17135550142"}},
		{"email lowercased", "apply to Jobs@Acme-Plumbing.com.", []string{"jobs@acme-plumbing.com"}},
		{"dedupe", "713-555-0142 or 7135550142", []string{"+17135550142"}},
		{"longer digit run ignored", "ref 97135550142123", nil},
		{"too few digits", "hiring 10 positions, $18-22/hr", nil},
		{"phone and email sorted", "hr@acme.com 713-555-0142", []string{"+17135550142", "hr@acme.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContacts(tt.text))
		})
	}
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 1)
	uf.union(3, 4)
	uf.union(1, 4)

	assert.Equal(t, uf.find(0), uf.find(3))
	assert.Equal(t, uf.find(0), uf.find(4))
	assert.NotEqual(t, uf.find(0), uf.find(2))
}

func TestGroup_PartitionsByKey(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "Acme Plumbing LLC", "Plumber Apprentice", "https://j/1", "Houston, TX", ""),
		norm(t, set, "ACME  plumbing", "Service Plumber", "https://j/2", "Houston, TX", ""),
		norm(t, set, "Bolt Electric", "Electrician Helper", "https://j/3", "Dallas, TX", ""),
	}

	p, err := Group(context.Background(), listings, 4)
	require.NoError(t, err)
	require.Len(t, p.Companies, 2)

	assert.Equal(t, "acme plumbing", p.Companies[0].Key)
	assert.Equal(t, 2, p.Companies[0].ListingCount())
	assert.Equal(t, "bolt electric", p.Companies[1].Key)
	assert.Equal(t, "Bolt Electric", p.Companies[1].DisplayName)
}

func TestGroup_MergesOnSharedPhone(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "Acme Plumbing", "Plumber Apprentice", "https://j/1", "Houston, TX", "Call 713-555-0142 to apply."),
		norm(t, set, "Acme Plumbing & Drain", "Drain Technician", "https://j/2", "Katy, TX", "Questions? (713) 555-0142"),
	}
	require.NotEqual(t, listings[0].CompanyKey, listings[1].CompanyKey)

	p, err := Group(context.Background(), listings, 2)
	require.NoError(t, err)
	require.Len(t, p.Companies, 1)

	c := p.Companies[0]
	assert.Equal(t, 2, c.ListingCount())
	assert.Equal(t, "acme plumbing", c.Key)
	assert.Equal(t, []string{"+17135550142"}, c.Contacts)
	assert.Len(t, c.Locations, 2)
}

func TestGroup_MergesOnSharedEmailTransitively(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "Alpha Movers", "Moving Crew Member", "https://j/1", "", "Email hr@alphamove.com"),
		norm(t, set, "Alpha Moving Co", "Truck Driver Needed", "https://j/2", "", "Send resume to HR@alphamove.com or call 512-555-0100"),
		norm(t, set, "Alpha Logistics", "Dispatcher Position", "https://j/3", "", "Call 512 555 0100"),
		norm(t, set, "Unrelated Roofing", "Roofer Helper Wanted", "https://j/4", "", "Call 512-555-0199"),
	}

	p, err := Group(context.Background(), listings, 3)
	require.NoError(t, err)
	require.Len(t, p.Companies, 2)

	assert.Equal(t, 3, p.Companies[0].ListingCount())
	assert.Equal(t, "alpha logistics", p.Companies[0].Key)
	assert.Equal(t, "unrelated roofing", p.Companies[1].Key)
}

func TestGroup_PrefersRealKeyOverPlaceholder(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "", "general labor position", "https://j/1", "Austin, TX", "call 512-555-0111"),
		norm(t, set, "", "warehouse associate", "https://j/2", "Austin, TX", "call 512-555-0111"),
		norm(t, set, "Lone Star Freight", "Freight Handler", "https://j/3", "Austin, TX", "call 512-555-0111"),
	}
	require.True(t, listings[0].LowConfidenceGrouping)

	p, err := Group(context.Background(), listings, 2)
	require.NoError(t, err)
	require.Len(t, p.Companies, 1)
	assert.Equal(t, "lone star freight", p.Companies[0].Key)
	assert.Equal(t, "Lone Star Freight", p.Companies[0].DisplayName)
	assert.InDelta(t, 2.0/3.0, p.Companies[0].LowConfidenceShare(), 1e-9)
}

func TestGroup_PlaceholdersDoNotBridgeCompanies(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "Alpha Roofing", "Roofing Installer", "https://j/1", "Houston, TX", "Call 713-555-0101"),
		norm(t, set, "Alpha Roofing", "Roofing Foreman", "https://j/2", "Houston, TX", "Call 713-555-0101"),
		norm(t, set, "Alpha Roofing", "Roofing Helper", "https://j/3", "Houston, TX", "Call 713-555-0101"),
		norm(t, set, "Beta Dental", "Dental Assistant", "https://j/4", "Houston, TX", "Call 713-555-0202"),
		norm(t, set, "Beta Dental", "Dental Hygienist", "https://j/5", "Houston, TX", "Call 713-555-0202"),
		norm(t, set, "Beta Dental", "Front Desk Coordinator", "https://j/6", "Houston, TX", "Call 713-555-0202"),
		norm(t, set, "", "general labor position", "https://j/7", "Houston, TX", "Questions? 713-555-0101"),
		norm(t, set, "", "warehouse associate", "https://j/8", "Houston, TX", "Questions? 713-555-0202"),
	}
	require.True(t, listings[6].LowConfidenceGrouping)
	require.Equal(t, listings[6].CompanyKey, listings[7].CompanyKey)

	p, err := Group(context.Background(), listings, 3)
	require.NoError(t, err)
	require.Len(t, p.Companies, 2)

	alpha, beta := p.Companies[0], p.Companies[1]
	assert.Equal(t, "alpha roofing", alpha.Key)
	assert.Equal(t, 4, alpha.ListingCount())
	assert.Equal(t, []string{"+17135550101"}, alpha.Contacts)

	assert.Equal(t, "beta dental", beta.Key)
	assert.Equal(t, 4, beta.ListingCount())
	assert.Equal(t, []string{"+17135550202"}, beta.Contacts)
}

func TestGroup_UnlinkedPlaceholdersShareLocationGroup(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "", "general labor position", "https://j/1", "Austin, TX", ""),
		norm(t, set, "", "warehouse associate", "https://j/2", "Austin, TX", "call 512-555-0111"),
		norm(t, set, "", "delivery helper", "https://j/3", "Austin, TX", "email jobs@example.com"),
		norm(t, set, "", "forklift operator", "https://j/4", "Dallas, TX", ""),
	}

	p, err := Group(context.Background(), listings, 2)
	require.NoError(t, err)
	require.Len(t, p.Companies, 2)

	austin := p.Companies[0]
	assert.Equal(t, "loc:austin, tx", austin.Key)
	assert.Equal(t, 3, austin.ListingCount())
	assert.InDelta(t, 1.0, austin.LowConfidenceShare(), 1e-9)
	assert.Equal(t, []string{"+15125550111", "jobs@example.com"}, austin.Contacts)

	assert.Equal(t, "loc:dallas, tx", p.Companies[1].Key)
	assert.Equal(t, 1, p.Companies[1].ListingCount())
}

func TestGroup_OrderIndependent(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	listings := []model.NormalizedListing{
		norm(t, set, "Acme Plumbing", "Plumber Apprentice", "https://j/1", "Houston, TX", "Call 713-555-0142"),
		norm(t, set, "Acme Drain", "Drain Technician", "https://j/2", "Katy, TX", "713-555-0142"),
		norm(t, set, "Acme Drain", "Drain Cleaner", "https://j/3", "Katy, TX", "hr@acmedrain.com"),
		norm(t, set, "Bolt Electric", "Electrician Helper", "https://j/4", "Dallas, TX", ""),
		norm(t, set, "Bolt Electric", "Apprentice Electrician", "https://j/5", "Dallas, TX", ""),
		norm(t, set, "Cedar HVAC", "HVAC Installer", "https://j/6", "Austin, TX", "hr@acmedrain.com"),
		norm(t, set, "", "general labor position", "https://j/7", "Austin, TX", ""),
	}

	want, err := Group(context.Background(), listings, 1)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.NormalizedListing(nil), listings...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Group(context.Background(), shuffled, 4)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGroup_Empty(t *testing.T) {
	p, err := Group(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, p.Companies)
	assert.Empty(t, p.Eligible(3))
}

func TestGroup_CanceledContext(t *testing.T) {
	set := rules.MustCompile(rules.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Group(ctx, []model.NormalizedListing{
		norm(t, set, "Acme", "Plumber Apprentice", "https://j/1", "", ""),
	}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartition_Eligible(t *testing.T) {
	p := &Partition{Companies: []model.Company{
		{Key: "a", Listings: make([]model.NormalizedListing, 3)},
		{Key: "b", Listings: make([]model.NormalizedListing, 2)},
		{Key: "c", Listings: make([]model.NormalizedListing, 5)},
	}}

	got := p.Eligible(3)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, "c", got[1].Key)
}
