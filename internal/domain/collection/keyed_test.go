package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	id     string
	status string
}

func (r rec) Key() string { return r.id }

func keys(c *Keyed[string, rec]) []string {
	out := make([]string, 0, c.Len())
	for _, r := range c.Items() {
		out = append(out, r.id)
	}

	return out
}

func TestUpsert_OverwritesInPlace(t *testing.T) {
	c := New[string](rec{id: "1"}, rec{id: "5", status: "confirmed"}, rec{id: "2"})

	inserted := c.Upsert(rec{id: "5", status: "preparing"})

	assert.False(t, inserted)
	assert.Equal(t, []string{"1", "5", "2"}, keys(c))
	got, ok := c.Get("5")
	require.True(t, ok)
	assert.Equal(t, "preparing", got.status)
}

func TestUpsert_InsertsAtFront(t *testing.T) {
	c := New[string](rec{id: "1"})

	assert.True(t, c.Upsert(rec{id: "2"}))
	assert.Equal(t, []string{"2", "1"}, keys(c))
}

func TestUpsert_Idempotent(t *testing.T) {
	once := New[string](rec{id: "1"})
	once.Upsert(rec{id: "3", status: "ready"})

	twice := New[string](rec{id: "1"})
	twice.Upsert(rec{id: "3", status: "ready"})
	twice.Upsert(rec{id: "3", status: "ready"})

	assert.Equal(t, once.Items(), twice.Items())
}

func TestInsertIfAbsent_DropsKnownKeys(t *testing.T) {
	c := New[string](rec{id: "9", status: "old"})

	assert.False(t, c.InsertIfAbsent(rec{id: "9", status: "new"}))
	got, _ := c.Get("9")
	assert.Equal(t, "old", got.status)

	assert.True(t, c.InsertIfAbsent(rec{id: "10"}))
	assert.Equal(t, []string{"10", "9"}, keys(c))
}

func TestReplace_CollapsesDuplicateKeys(t *testing.T) {
	c := New[string, rec]()
	c.Upsert(rec{id: "x"})

	c.Replace([]rec{{id: "1", status: "a"}, {id: "2"}, {id: "1", status: "b"}})

	assert.Equal(t, []string{"1", "2"}, keys(c))
	got, _ := c.Get("1")
	assert.Equal(t, "b", got.status)
	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestRemoveAndInsertAt(t *testing.T) {
	c := New[string](rec{id: "1"}, rec{id: "2"}, rec{id: "3"})

	pos := c.Position("2")
	removed, ok := c.Remove("2")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, keys(c))
	assert.Equal(t, -1, c.Position("2"))

	c.InsertAt(pos, removed)
	assert.Equal(t, []string{"1", "2", "3"}, keys(c))

	_, ok = c.Remove("missing")
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	c := New[string](rec{id: "1", status: "a"})

	prev, ok := c.Update("1", func(r rec) rec { r.status = "b"; return r })
	require.True(t, ok)
	assert.Equal(t, "a", prev.status)
	got, _ := c.Get("1")
	assert.Equal(t, "b", got.status)

	_, ok = c.Update("2", func(r rec) rec { return r })
	assert.False(t, ok)

	c.UpdateAll(func(r rec) rec { r.status = "z"; return r })
	got, _ = c.Get("1")
	assert.Equal(t, "z", got.status)
}

func TestItemsIsACopy(t *testing.T) {
	c := New[string](rec{id: "1", status: "a"})

	items := c.Items()
	items[0].status = "mutated"

	got, _ := c.Get("1")
	assert.Equal(t, "a", got.status)
}
