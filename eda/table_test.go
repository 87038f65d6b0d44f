package eda

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

func TestTableSetGrowsRowsAndColumns(t *testing.T) {
	tbl := NewTable("a")
	tbl.Set("iris", "b", "1")

	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, []string{"iris"}, tbl.Names())
	assert.True(t, tbl.IsNA("iris", "a"))
	v, ok := tbl.Get("iris", "b")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = tbl.Get("iris", "missing")
	assert.False(t, ok)
	assert.True(t, tbl.IsNA("wine", "a"))
}

func TestTableConcatKeepsLaterRow(t *testing.T) {
	left := NewTable("a")
	left.Set("iris", "a", "old")
	left.Set("wine", "a", "w")

	right := NewTable("a", "extra")
	right.Set("iris", "a", "new")
	right.Set("iris", "extra", "x")

	out := left.Concat(right)
	assert.Equal(t, []string{"a", "extra"}, out.Columns())
	assert.Equal(t, []string{"wine", "iris"}, out.Names())
	v, _ := out.Get("iris", "a")
	assert.Equal(t, "new", v)
	assert.True(t, out.IsNA("wine", "extra"))
}

func TestTableRowAndDrop(t *testing.T) {
	tbl := NewDefaultTable()
	tbl.Set("iris", "noise", "none")
	tbl.Set("wine", "noise", "some")

	row := tbl.Row("iris")
	require.NotNil(t, row)
	assert.Equal(t, 1, row.Len())
	assert.Equal(t, DefaultColumns, row.Columns())
	assert.Nil(t, tbl.Row("digits"))

	tbl.Drop("iris")
	assert.Equal(t, []string{"wine"}, tbl.Names())
	tbl.Drop("iris")
	assert.Equal(t, 1, tbl.Len())
}

func TestTableCSVRoundTrip(t *testing.T) {
	tbl := NewTable("description", "n samples")
	tbl.Set("iris", "description", "flowers, three classes")
	tbl.Set("iris", "n samples", "150")
	tbl.AddRow("wine")

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	assert.Equal(t, "dataset,description,n samples\niris,\"flowers, three classes\",150\nwine,,\n", buf.String())

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Records(), got.Records())
}

func TestReadTableHeaderOnly(t *testing.T) {
	got, err := ReadTable(strings.NewReader("dataset,a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"a", "b"}, got.Columns())
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong index", "name,a\nx,1\n"},
		{"blank name", "dataset,a\n,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			require.Error(t, err)
			var ve *errors.ValueError
			assert.True(t, errors.As(err, &ve))
		})
	}
}
