package library

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f, err := os.Open("testdata/seed.yaml")
	require.NoError(t, err)
	defer f.Close()

	records, err := LoadRecords(f)
	require.NoError(t, err)

	n, err := store.Import(ctx, records)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	return store
}

func itemIDs(items []Item) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestStoreCountAndList(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	count, err := store.CountItems(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	page1, err := store.ListItems(ctx, Filter{}, SortID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 4}, itemIDs(page1))

	page3, err := store.ListItems(ctx, Filter{}, SortID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, itemIDs(page3))

	past, err := store.ListItems(ctx, Filter{}, SortID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, past)
	assert.NotNil(t, past)

	none, err := store.ListItems(ctx, Filter{}, SortID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreSorts(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	byTitle, err := store.ListItems(ctx, Filter{}, SortTitle, 0, 10)
	require.NoError(t, err)
	// NOCASE folds ASCII only, so accented titles order by code point.
	assert.Equal(t, []int{2, 1, 7, 4, 3}, itemIDs(byTitle))

	byAdded, err := store.ListItems(ctx, Filter{}, SortAdded, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1, 7}, itemIDs(byAdded))

	unknown, err := store.ListItems(ctx, Filter{}, Sort("title; DROP TABLE items"), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 4, 3, 2, 1}, itemIDs(unknown))
}

func TestStoreFilters(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	logic := Filter{Tag: "LOGIC"}
	count, err := store.CountItems(ctx, logic)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := store.ListItems(ctx, logic, SortID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, itemIDs(items))

	authors, err := store.Authors(ctx)
	require.NoError(t, err)
	var knuth int
	for _, a := range authors {
		if a.LastName == "Knuth" {
			knuth = a.ID
		}
	}
	require.NotZero(t, knuth)

	author, err := store.Author(ctx, knuth)
	require.NoError(t, err)
	assert.Equal(t, "Knuth, Donald", author.Label())
	_, err = store.Author(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	both := Filter{Tag: "computation", AuthorID: knuth}
	assert.True(t, both.Active())
	items, err = store.ListItems(ctx, both, SortID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, itemIDs(items))

	count, err = store.CountItems(ctx, Filter{Tag: "missing"})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreItemRelations(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	item, err := store.Item(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Éléments de géométrie algébrique", item.Title)
	require.Len(t, item.Authors, 2)
	assert.Equal(t, "Grothendieck, Alexander", item.Authors[0].Label())
	assert.Equal(t, "Dieudonné, Jean", item.Authors[1].Label())
	assert.Equal(t, []string{"geometry"}, item.Tags)
	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), item.AddedAt)
	assert.False(t, item.HasFile())

	first, err := store.Item(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"computation", "logic"}, first.Tags)
	assert.True(t, first.HasFile())
	assert.True(t, strings.Contains(first.Notes, "*a-machine*"))

	_, err = store.Item(ctx, 5)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreRangeAndMax(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	maxID, err := store.MaxItemID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, maxID)

	items, err := store.ItemsInRange(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 4, 3}, itemIDs(items))

	gap, err := store.ItemsInRange(ctx, 5, 6)
	require.NoError(t, err)
	assert.Empty(t, gap)
}

func TestStoreEmpty(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Ping(ctx))

	maxID, err := store.MaxItemID(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	tags, err := store.Tags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.NotNil(t, tags)
}

func TestStoreTagsAndAuthors(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	tags, err := store.Tags(ctx)
	require.NoError(t, err)
	names := make(map[string]int, len(tags))
	for _, tag := range tags {
		names[tag.Name] = tag.Count
	}
	assert.Equal(t, map[string]int{
		"algorithms":  1,
		"computation": 2,
		"geometry":    1,
		"information": 1,
		"logic":       2,
	}, names)

	authors, err := store.Authors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 6)
	for _, a := range authors {
		assert.Equal(t, 1, a.Count, a.Label())
	}
}

func TestTagsMatchAcrossUnicodeCase(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Import(ctx, []Record{
		{Title: "Stadtökologie", Tags: []string{"Ökologie"}},
		{Title: "Wald", Tags: []string{"ökologie", "Straße"}},
		{Title: "Verkehr", Tags: []string{"STRASSE"}},
	})
	require.NoError(t, err)

	tags, err := store.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	for tag, want := range map[string]int{"ökologie": 2, "ÖKOLOGIE": 2, "strasse": 2, "logic": 0} {
		count, err := store.CountItems(ctx, Filter{Tag: tag})
		require.NoError(t, err)
		assert.Equal(t, want, count, tag)
	}
}

func TestImportRollsBackOnInvalidRecord(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Import(ctx, []Record{
		{Title: "Kept only if all succeed"},
		{Title: "   "},
	})
	require.Error(t, err)

	count, err := store.CountItems(ctx, Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	n, err := store.Import(ctx, []Record{{Title: "First"}, {Title: "Second", Tags: []string{"a", "A", " "}}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tags, err := store.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1, tags[0].Count)
}

func TestLoadRecords(t *testing.T) {
	records, err := LoadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = LoadRecords(strings.NewReader("items:\n  - title: x\n    colour: red\n"))
	require.Error(t, err)

	_, err = LoadRecords(strings.NewReader("items:\n  - id: -1\n    title: x\n"))
	require.Error(t, err)

	records, err = LoadRecords(strings.NewReader("items:\n  - title: Solo\n    authors: [\"Noether\"]\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Author{LastName: "Noether"}, ParseAuthor(records[0].Authors[0]))
}

func TestParseAuthor(t *testing.T) {
	assert.Equal(t, Author{LastName: "Turing", FirstName: "Alan"}, ParseAuthor(" Turing ,  Alan "))
	assert.Equal(t, "Turing, Alan", ParseAuthor("Turing, Alan").Label())
	assert.Equal(t, "Euclid", ParseAuthor("Euclid").Label())
}
