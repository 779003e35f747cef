package remote_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bookstack/internal/lookupcache"
	"bookstack/internal/record"
	"bookstack/internal/remote"
)

type fakeClient struct {
	candidates []remote.Candidate
	searchErr  error

	authorCalls int
	seriesCalls int
}

func (f *fakeClient) SearchBooks(_ context.Context, _, _ string) ([]remote.Candidate, error) {
	return f.candidates, f.searchErr
}

func (f *fakeClient) AuthorID(_ context.Context, name string) (string, error) {
	f.authorCalls++
	return "author:" + name, nil
}

func (f *fakeClient) SeriesID(_ context.Context, name string) (string, error) {
	f.seriesCalls++
	return "series:" + name, nil
}

func floatPtr(f float64) *float64 { return &f }

func TestFetchFillsMissingFields(t *testing.T) {
	client := &fakeClient{candidates: []remote.Candidate{{
		Work:      "W1",
		Language:  "en",
		Published: floatPtr(1969),
		Pages:     floatPtr(304),
	}}}
	fetcher := remote.NewFetcher(client, nil, nil)

	b := &record.Book{ID: "1", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"}
	fields := []remote.Field{remote.FieldWork, remote.FieldLanguage, remote.FieldPublished, remote.FieldPages}
	if err := fetcher.Fetch(context.Background(), b, fields); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b.Work != "W1" || b.Language != "en" {
		t.Fatalf("book = %+v", b)
	}
	if b.Published == nil || *b.Published != 1969 || b.Pages == nil || *b.Pages != 304 {
		t.Fatalf("book = %+v", b)
	}
}

func TestFetchKeepsBookPreferredFields(t *testing.T) {
	client := &fakeClient{candidates: []remote.Candidate{{
		Language:  "en",
		Published: floatPtr(1969),
	}}}
	fetcher := remote.NewFetcher(client, nil, nil)

	// Language prefers the edition in hand; Published prefers the work.
	published := 1970.0
	b := &record.Book{ID: "1", Title: "T", Language: "pl", Published: &published}
	if err := fetcher.Fetch(context.Background(), b, []remote.Field{remote.FieldLanguage, remote.FieldPublished}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b.Language != "pl" {
		t.Fatalf("language overwritten: %q", b.Language)
	}
	if b.Published == nil || *b.Published != 1969 {
		t.Fatalf("published = %v, want the work-level value", b.Published)
	}
}

func TestFetchNoCandidatesIsANoOp(t *testing.T) {
	fetcher := remote.NewFetcher(&fakeClient{}, nil, nil)
	b := &record.Book{ID: "1", Title: "T"}
	if err := fetcher.Fetch(context.Background(), b, []remote.Field{remote.FieldWork}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if b.Work != "" {
		t.Fatalf("work = %q", b.Work)
	}
}

func TestFetchPropagatesSearchError(t *testing.T) {
	wantErr := errors.New("service down")
	fetcher := remote.NewFetcher(&fakeClient{searchErr: wantErr}, nil, nil)
	err := fetcher.Fetch(context.Background(), &record.Book{ID: "1", Title: "T"}, []remote.Field{remote.FieldWork})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveAuthorIDUsesCache(t *testing.T) {
	store, err := lookupcache.Open(filepath.Join(t.TempDir(), "lookup.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer store.Close()

	client := &fakeClient{}
	fetcher := remote.NewFetcher(client, store, nil)
	ctx := context.Background()

	first, err := fetcher.ResolveAuthorID(ctx, "Iris Murdoch")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := fetcher.ResolveAuthorID(ctx, "Iris Murdoch")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first != second || first != "author:Iris Murdoch" {
		t.Fatalf("ids = %q, %q", first, second)
	}
	if client.authorCalls != 1 {
		t.Fatalf("client calls = %d, want 1 (second hit served from cache)", client.authorCalls)
	}
}

func TestResolveSeriesIDWithoutCache(t *testing.T) {
	client := &fakeClient{}
	fetcher := remote.NewFetcher(client, nil, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id, err := fetcher.ResolveSeriesID(ctx, "Culture")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if id != "series:Culture" {
			t.Fatalf("id = %q", id)
		}
	}
	if client.seriesCalls != 2 {
		t.Fatalf("client calls = %d, want 2 without a cache", client.seriesCalls)
	}
}
