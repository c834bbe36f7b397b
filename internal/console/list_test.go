package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string
	Name string
	City string
}

func newRowView() *ListView[row] {
	return NewListView(
		func(r row) string { return r.ID },
		func(r row) string { return r.Name },
		func(r row) string { return r.City },
	)
}

func sampleRows() []row {
	return []row{
		{ID: "1", Name: "Ahmad Salem", City: "Cairo"},
		{ID: "2", Name: "Mona Fathi", City: "Alexandria"},
		{ID: "3", Name: "Salma Ahmad", City: "Giza"},
	}
}

func TestListViewSearchIsCaseInsensitiveSubstring(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())

	v.Search("ahmad")
	require.Len(t, v.Items(), 2)
	assert.Equal(t, "1", v.Items()[0].ID)
	assert.Equal(t, "3", v.Items()[1].ID)

	v.Search("ALEX")
	require.Len(t, v.Items(), 1)
	assert.Equal(t, "2", v.Items()[0].ID)

	v.Search("nomatch")
	assert.Empty(t, v.Items())
}

func TestListViewClearRestoresFullSequence(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())

	v.Search("mona")
	require.Len(t, v.Items(), 1)

	v.Clear()
	assert.Len(t, v.Items(), 3)
	assert.Empty(t, v.Query())
}

func TestListViewSearchMatchesAnyField(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())

	v.Search("giza")
	require.Len(t, v.Items(), 1)
	assert.Equal(t, "Salma Ahmad", v.Items()[0].Name)
}

func TestListViewRemoveDropsFromBothSequences(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())
	v.Search("ahmad")
	require.Len(t, v.Items(), 2)

	assert.True(t, v.Remove("1"))
	assert.Len(t, v.Items(), 1)

	v.Clear()
	assert.Len(t, v.Items(), 2)
}

func TestListViewRemoveUnknownID(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())

	assert.False(t, v.Remove("99"))
	assert.Len(t, v.Items(), 3)
}

func TestListViewQueryPersistsAcrossReload(t *testing.T) {
	v := newRowView()
	v.Load(sampleRows())
	v.Search("cairo")
	require.Len(t, v.Items(), 1)

	v.Load(append(sampleRows(), row{ID: "4", Name: "Omar", City: "Cairo West"}))
	assert.Len(t, v.Items(), 2)
}
