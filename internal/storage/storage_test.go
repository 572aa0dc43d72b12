package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleLead(website string, overall int) *Lead {
	return &Lead{
		CompanyName: "Acme Tools",
		Website:     website,
		Description: "Precision tools",
		Emails:      []string{"sales@acme.example.org"},
		Phones:      []string{"+49 89 1234 5678"},
		Addresses:   []string{"Industriestrasse 5, Munich"},
		SocialMedia: map[string]string{"linkedin": "https://linkedin.com/company/acme"},
		BusinessInfo: map[string]string{
			"industry":    "manufacturing",
			"foundedYear": "1987",
		},
		Overall:     overall,
		Relevance:   70,
		Credibility: 60,
		Contact:     80,
		Content:     30,
		Technical:   20,
		SearchRank:  1,
		CrawledAt:   time.Now().UTC(),
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	store := newTestStorage(t)

	lead := sampleLead("https://acme.example.org", 55)
	id, err := store.UpsertLead(lead)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	got, err := store.GetLead("https://acme.example.org")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.LeadID)
	assert.Equal(t, lead.CompanyName, got.CompanyName)
	assert.Equal(t, lead.Emails, got.Emails)
	assert.Equal(t, lead.Phones, got.Phones)
	assert.Equal(t, lead.Addresses, got.Addresses)
	assert.Equal(t, lead.SocialMedia, got.SocialMedia)
	assert.Equal(t, lead.BusinessInfo, got.BusinessInfo)
	assert.Equal(t, 55, got.Overall)
	assert.Equal(t, 80, got.Contact)
	assert.Equal(t, 1, got.SearchRank)
}

func TestGetLeadNotFound(t *testing.T) {
	store := newTestStorage(t)

	got, err := store.GetLead("https://nobody.example.org")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertReplacesExistingWebsite(t *testing.T) {
	store := newTestStorage(t)

	first := sampleLead("https://acme.example.org", 30)
	id1, err := store.UpsertLead(first)
	require.NoError(t, err)

	second := sampleLead("https://acme.example.org", 90)
	second.CompanyName = "Acme Tools GmbH"
	second.Emails = []string{"info@acme.example.org"}
	id2, err := store.UpsertLead(second)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "recrawling a site keeps its lead_id")

	count, err := store.CountLeads()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetLead("https://acme.example.org")
	require.NoError(t, err)
	assert.Equal(t, "Acme Tools GmbH", got.CompanyName)
	assert.Equal(t, 90, got.Overall)
	assert.Equal(t, []string{"info@acme.example.org"}, got.Emails)
}

func TestListTopLeadsOrdersByScore(t *testing.T) {
	store := newTestStorage(t)

	scores := []int{12, 88, 45, 0}
	for i, score := range scores {
		lead := sampleLead(fmt.Sprintf("https://site%d.example.org", i), score)
		_, err := store.UpsertLead(lead)
		require.NoError(t, err)
	}

	leads, err := store.ListTopLeads(3)
	require.NoError(t, err)
	require.Len(t, leads, 3)

	assert.Equal(t, 88, leads[0].Overall)
	assert.Equal(t, 45, leads[1].Overall)
	assert.Equal(t, 12, leads[2].Overall)
}

func TestUpsertFailedCrawl(t *testing.T) {
	store := newTestStorage(t)

	lead := &Lead{
		CompanyName: "unknown",
		Website:     "https://down.example.org",
		CrawlError:  "fetch: HTTP 404 Not Found",
		CrawledAt:   time.Now().UTC(),
	}
	_, err := store.UpsertLead(lead)
	require.NoError(t, err)

	got, err := store.GetLead("https://down.example.org")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "fetch: HTTP 404 Not Found", got.CrawlError)
	assert.Zero(t, got.Overall)
	assert.Empty(t, got.Emails)
}
