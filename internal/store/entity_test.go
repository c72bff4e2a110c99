package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booksphere/booksphere-server/internal/store"
)

type testEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Group string `json:"group"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	data := &testEntity{ID: "1", Name: "Ada", Email: "ada@example.com"}
	err := entity.Create(context.Background(), "1", data)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, data.Name, retrieved.Name)
	require.Equal(t, data.Email, retrieved.Email)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	data := &testEntity{ID: "1", Name: "Ada"}
	require.NoError(t, entity.Create(context.Background(), "1", data))

	err := entity.Create(context.Background(), "1", data)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UniqueIndex_Conflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) string { return e.Email })

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Email: "shared@example.com"}))

	err := entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Email: "shared@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_UniqueIndex_Lookup(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) string { return e.Email })

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Email: "ada@example.com"}))

	found, err := entity.GetByIndex(context.Background(), "email", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "Ada", found.Name)

	_, err = entity.GetByIndex(context.Background(), "email", "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_NonUniqueIndex_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithIndex("group", func(e *testEntity) string { return e.Group })

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Group: "a"}))
	require.NoError(t, entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Name: "Grace", Group: "a"}))
	require.NoError(t, entity.Create(context.Background(), "3",
		&testEntity{ID: "3", Name: "Edsger", Group: "b"}))

	groupA, err := entity.ListByIndex(context.Background(), "group", "a")
	require.NoError(t, err)
	require.Len(t, groupA, 2)

	groupB, err := entity.ListByIndex(context.Background(), "group", "b")
	require.NoError(t, err)
	require.Len(t, groupB, 1)
	require.Equal(t, "Edsger", groupB[0].Name)

	empty, err := entity.ListByIndex(context.Background(), "group", "c")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestEntity_Update_MovesIndexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithIndex("group", func(e *testEntity) string { return e.Group })

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Group: "a"}))

	require.NoError(t, entity.Update(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Group: "b"}))

	groupA, err := entity.ListByIndex(context.Background(), "group", "a")
	require.NoError(t, err)
	require.Empty(t, groupA)

	groupB, err := entity.ListByIndex(context.Background(), "group", "b")
	require.NoError(t, err)
	require.Len(t, groupB, 1)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &testEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) string { return e.Email })

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Email: "ada@example.com"}))

	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1"))

	_, err := entity.Get(context.Background(), "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Index key must be gone too
	_, err = entity.GetByIndex(context.Background(), "email", "ada@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_List_SkipsIndexKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) string { return e.Email })

	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		id := string(rune('1' + i))
		require.NoError(t, entity.Create(context.Background(), id,
			&testEntity{ID: id, Email: email}))
	}

	var count int
	for e, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		require.NotNil(t, e)
		count++
	}
	require.Equal(t, 3, count)
}
