package main

import (
	"context"
	"errors"
	"testing"

	"bookstack/internal/logging"
	"bookstack/internal/record"
	"bookstack/internal/remote"
)

type catalogStub struct {
	candidates map[string][]remote.Candidate
	authorIDs  map[string]string
	seriesIDs  map[string]string
	searches   int
}

func (s *catalogStub) SearchBooks(ctx context.Context, title, author string) ([]remote.Candidate, error) {
	s.searches++
	return s.candidates[title], nil
}

func (s *catalogStub) AuthorID(ctx context.Context, name string) (string, error) {
	if id, ok := s.authorIDs[name]; ok {
		return id, nil
	}
	return "", errors.New("no entity")
}

func (s *catalogStub) SeriesID(ctx context.Context, name string) (string, error) {
	if id, ok := s.seriesIDs[name]; ok {
		return id, nil
	}
	return "", errors.New("no entity")
}

func float(v float64) *float64 { return &v }

func TestEnrichMetadataFillsMissingFields(t *testing.T) {
	table := record.NewTable()
	sparse := &record.Book{ID: "1", Author: "Iris Murdoch", Title: "The Bell", Language: "en"}
	if err := table.Append(sparse); err != nil {
		t.Fatal(err)
	}

	stub := &catalogStub{
		candidates: map[string][]remote.Candidate{
			"The Bell": {{Work: "OL59717W", Published: float(1958), Pages: float(302), Language: "eng"}},
		},
		authorIDs: map[string]string{"Iris Murdoch": "Q217495"},
	}
	fetcher := remote.NewFetcher(stub, nil, logging.Nop())

	touched, err := enrichMetadata(context.Background(), fetcher, table, 0, logging.Nop())
	if err != nil {
		t.Fatalf("enrichMetadata: %v", err)
	}
	if touched != 1 {
		t.Fatalf("touched = %d, want 1", touched)
	}
	if sparse.Work != "OL59717W" {
		t.Errorf("Work = %q, want OL59717W", sparse.Work)
	}
	if sparse.Published == nil || *sparse.Published != 1958 {
		t.Errorf("Published = %v, want 1958", sparse.Published)
	}
	if sparse.Pages == nil || *sparse.Pages != 302 {
		t.Errorf("Pages = %v, want 302", sparse.Pages)
	}
	// Language is an edition-level column; the book's own value sticks.
	if sparse.Language != "en" {
		t.Errorf("Language = %q, want en", sparse.Language)
	}
	if sparse.AuthorID != "Q217495" {
		t.Errorf("AuthorID = %q, want Q217495", sparse.AuthorID)
	}
}

func TestEnrichMetadataSkipsCompleteRowsAndHonorsLimit(t *testing.T) {
	table := record.NewTable()
	complete := &record.Book{
		ID: "1", Author: "Iris Murdoch", AuthorID: "Q217495", Title: "Under the Net",
		Work: "OL59711W", Published: float(1954), Pages: float(253), Language: "en",
	}
	first := &record.Book{ID: "2", Author: "Iris Murdoch", AuthorID: "Q217495", Title: "The Bell", Language: "en"}
	second := &record.Book{ID: "3", Author: "Iris Murdoch", AuthorID: "Q217495", Title: "The Sea, the Sea", Language: "en"}
	for _, b := range []*record.Book{complete, first, second} {
		if err := table.Append(b); err != nil {
			t.Fatal(err)
		}
	}

	stub := &catalogStub{candidates: map[string][]remote.Candidate{
		"The Bell":         {{Work: "OL59717W", Published: float(1958), Pages: float(302)}},
		"The Sea, the Sea": {{Work: "OL59720W", Published: float(1978), Pages: float(538)}},
	}}
	fetcher := remote.NewFetcher(stub, nil, logging.Nop())

	touched, err := enrichMetadata(context.Background(), fetcher, table, 1, logging.Nop())
	if err != nil {
		t.Fatalf("enrichMetadata: %v", err)
	}
	if touched != 1 {
		t.Fatalf("touched = %d, want 1", touched)
	}
	if stub.searches != 1 {
		t.Fatalf("searches = %d, want 1", stub.searches)
	}
	if first.Work != "OL59717W" {
		t.Errorf("first incomplete row not filled, Work = %q", first.Work)
	}
	if second.Work != "" {
		t.Errorf("row past the limit was queried, Work = %q", second.Work)
	}
}

func TestEnrichMetadataToleratesFailedIDLookups(t *testing.T) {
	table := record.NewTable()
	b := &record.Book{ID: "1", Author: "Iris Murdoch", Title: "The Bell", Series: "Obscure Cycle"}
	if err := table.Append(b); err != nil {
		t.Fatal(err)
	}

	stub := &catalogStub{candidates: map[string][]remote.Candidate{
		"The Bell": {{Work: "OL59717W", Published: float(1958)}},
	}}
	fetcher := remote.NewFetcher(stub, nil, logging.Nop())

	touched, err := enrichMetadata(context.Background(), fetcher, table, 0, logging.Nop())
	if err != nil {
		t.Fatalf("enrichMetadata: %v", err)
	}
	if touched != 1 {
		t.Fatalf("touched = %d, want 1", touched)
	}
	if b.Work != "OL59717W" {
		t.Errorf("fetched fields must survive a failed id lookup, Work = %q", b.Work)
	}
	if b.AuthorID != "" || b.SeriesID != "" {
		t.Errorf("ids should stay unset after failed lookups, got %q/%q", b.AuthorID, b.SeriesID)
	}
}
