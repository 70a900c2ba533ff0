package services

import (
	"context"
	"testing"

	"todo-lists/app/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListFromRecord(t *testing.T) {
	listID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()

	record := &neo4j.Record{
		Keys: []string{"id", "title", "items"},
		Values: []any{
			listID.Hex(),
			"Groceries",
			[]any{
				map[string]any{
					"id":              itemID.Hex(),
					"text":            "eat pie",
					"due_date":        int64(1550046581000),
					"finished_status": true,
				},
			},
		},
	}

	list, err := listFromRecord(record)
	require.NoError(t, err)
	assert.Equal(t, listID, list.ID)
	assert.Equal(t, "Groceries", list.Title)
	require.Len(t, list.Items, 1)

	item := list.Items[0]
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, "eat pie", item.Text)
	assert.True(t, item.FinishedStatus)
	require.NotNil(t, item.DueDate)
	assert.Equal(t, models.DateFromEpochSeconds(1550046581), *item.DueDate)
}

func TestListFromRecordWithoutItems(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "title", "items"},
		Values: []any{primitive.NewObjectID().Hex(), "empty", []any{}},
	}

	list, err := listFromRecord(record)
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestListFromRecordBadID(t *testing.T) {
	for name, record := range map[string]*neo4j.Record{
		"Missing":  {Keys: []string{"title"}, Values: []any{"x"}},
		"NotHex":   {Keys: []string{"id"}, Values: []any{"nope"}},
		"NotAText": {Keys: []string{"id"}, Values: []any{int64(4)}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := listFromRecord(record)
			assert.Error(t, err)
		})
	}
}

func TestItemFromPropsWithoutDueDate(t *testing.T) {
	id := primitive.NewObjectID()
	item, err := itemFromProps(map[string]any{"id": id.Hex(), "text": "t", "due_date": nil})
	require.NoError(t, err)
	assert.Equal(t, models.Item{ID: id, Text: "t"}, item)

	_, err = itemFromProps(map[string]any{"text": "no id"})
	assert.Error(t, err)
}

func TestDueDateParam(t *testing.T) {
	assert.Nil(t, dueDateParam(nil))

	d := primitive.DateTime(1550046581000)
	assert.Equal(t, int64(1550046581000), dueDateParam(&d))
}

func newTestNeo4jStore(t *testing.T) *Neo4jStore {
	if testNeo4jDriver == nil {
		t.Skip("neo4j container is not available")
	}

	store := NewNeo4jStore(testNeo4jDriver, "")
	t.Cleanup(func() {
		ctx := context.Background()
		session := testNeo4jDriver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		res, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		assert.NoError(t, err)
	})
	return store
}

func TestNeo4jStoreCreateAndFind(t *testing.T) {
	ctx := t.Context()
	store := newTestNeo4jStore(t)

	created, err := store.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Groceries", created.Title)
	assert.NotNil(t, created.Items)
	assert.Empty(t, created.Items)

	found, err := store.FindList(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	missing, err := store.FindList(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNeo4jStoreFindListsPaging(t *testing.T) {
	ctx := t.Context()
	store := newTestNeo4jStore(t)

	var ids []primitive.ObjectID
	for _, title := range []string{"a", "b", "c"} {
		list, err := store.CreateList(ctx, title)
		require.NoError(t, err)
		ids = append(ids, list.ID)
	}
	_, err := store.PushItem(ctx, ids[1], models.NewItem("in b", nil, false))
	require.NoError(t, err)

	all, err := store.FindLists(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, list := range all {
		assert.Equal(t, ids[i], list.ID, "lists are ordered by id")
	}
	assert.Empty(t, all[0].Items)
	assert.Len(t, all[1].Items, 1)

	page, err := store.FindLists(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)
	assert.Len(t, page[0].Items, 1)

	past, err := store.FindLists(ctx, 5, 10)
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)
}

func TestNeo4jStoreUpdateAndDeleteList(t *testing.T) {
	ctx := t.Context()
	store := newTestNeo4jStore(t)

	list, err := store.CreateList(ctx, "Sedoc")
	require.NoError(t, err)
	item := models.NewItem("goes with the list", nil, false)
	_, err = store.PushItem(ctx, list.ID, item)
	require.NoError(t, err)

	updated, err := store.UpdateListTitle(ctx, list.ID, "Medoc")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Medoc", updated.Title)
	assert.Len(t, updated.Items, 1)

	missing, err := store.UpdateListTitle(ctx, primitive.NewObjectID(), "x")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := store.DeleteList(ctx, list.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.DeleteList(ctx, list.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	count, err = store.PullItem(ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count, "items are deleted with their list")
}

func TestNeo4jStoreItems(t *testing.T) {
	ctx := t.Context()
	store := newTestNeo4jStore(t)

	first, err := store.CreateList(ctx, "first")
	require.NoError(t, err)
	second, err := store.CreateList(ctx, "second")
	require.NoError(t, err)

	due := models.DateFromEpochSeconds(1550046581)
	keep := models.NewItem("keep", nil, false)
	drop := models.NewItem("drop", &due, true)

	_, err = store.PushItem(ctx, first.ID, models.NewItem("other list", nil, false))
	require.NoError(t, err)
	_, err = store.PushItem(ctx, second.ID, keep)
	require.NoError(t, err)
	list, err := store.PushItem(ctx, second.ID, drop)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, keep, list.Items[0])
	assert.Equal(t, drop, list.Items[1])

	t.Run("PushToMissingList", func(t *testing.T) {
		list, err := store.PushItem(ctx, primitive.NewObjectID(), models.NewItem("x", nil, false))
		require.NoError(t, err)
		assert.Nil(t, list)

		lists, err := store.FindLists(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, lists, 2)
	})

	t.Run("UpdateSetsOnlyGivenFields", func(t *testing.T) {
		text := "eat pie"
		finished := true
		list, err := store.UpdateItem(ctx, keep.ID, models.ItemUpdate{Text: &text, FinishedStatus: &finished})
		require.NoError(t, err)
		require.NotNil(t, list)
		assert.Equal(t, second.ID, list.ID)

		item, ok := findItem(list, keep.ID)
		require.True(t, ok)
		assert.Equal(t, "eat pie", item.Text)
		assert.Nil(t, item.DueDate)
		assert.True(t, item.FinishedStatus)

		other, ok := findItem(list, drop.ID)
		require.True(t, ok)
		assert.Equal(t, drop, other)
	})

	t.Run("UpdateDueDate", func(t *testing.T) {
		later := models.DateFromEpochSeconds(1550047581)
		list, err := store.UpdateItem(ctx, drop.ID, models.ItemUpdate{DueDate: &later})
		require.NoError(t, err)

		item, ok := findItem(list, drop.ID)
		require.True(t, ok)
		require.NotNil(t, item.DueDate)
		assert.Equal(t, later, *item.DueDate)
		assert.Equal(t, "drop", item.Text)
	})

	t.Run("EmptyUpdateReturnsParent", func(t *testing.T) {
		list, err := store.UpdateItem(ctx, drop.ID, models.ItemUpdate{})
		require.NoError(t, err)
		require.NotNil(t, list)
		assert.Equal(t, second.ID, list.ID)
	})

	t.Run("UpdateMissingItem", func(t *testing.T) {
		text := "x"
		list, err := store.UpdateItem(ctx, primitive.NewObjectID(), models.ItemUpdate{Text: &text})
		require.NoError(t, err)
		assert.Nil(t, list)
	})

	t.Run("PullFromSecondList", func(t *testing.T) {
		count, err := store.PullItem(ctx, drop.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		list, err := store.FindList(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, keep.ID, list.Items[0].ID)

		count, err = store.PullItem(ctx, drop.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		untouched, err := store.FindList(ctx, first.ID)
		require.NoError(t, err)
		assert.Len(t, untouched.Items, 1)
	})
}

func TestNeo4jStorePing(t *testing.T) {
	store := newTestNeo4jStore(t)
	assert.NoError(t, store.Ping(t.Context()))
}
