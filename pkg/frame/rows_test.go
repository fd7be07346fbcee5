package frame

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropDuplicates(t *testing.T) {
	src := "state,n,ratio\nOH,1,0.5\nTX,2,0.25\nOH,1,0.5\nOH,1,0.5000001\nTX,NA,0.25\nTX,NA,0.25\n"
	df, err := Read(strings.NewReader(src), ',')
	require.NoError(t, err)

	out, err := DropDuplicates(df)
	require.NoError(t, err)

	assert.Equal(t, 4, out.Nrow())
	assert.Equal(t, []string{"OH", "TX", "OH", "TX"}, out.Col("state").Records())
	assert.Equal(t, []bool{false, false, false, true}, out.Col("n").IsNaN())
}

func TestDropDuplicates_CellBoundaries(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"x\x1fy", "x", "a,", "a", "NA"}, series.String, "left"),
		series.New([]string{"z", "y\x1fz", "b", ",b", "x"}, series.String, "right"),
	)

	out, err := DropDuplicates(df)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Nrow(), "rows differing only in where cells split are distinct")
}

func TestDropDuplicates_Unique(t *testing.T) {
	df := sample(t)

	out, err := DropDuplicates(df)
	require.NoError(t, err)
	assert.Equal(t, df.Records(), out.Records())
}

func TestDropZeroRows(t *testing.T) {
	src := "state,n_killed,n_injured\nOH,0,0\nTX,1,0\nCA,0,NA\nNY,NA,NA\nWA,0,2\n"
	df, err := Read(strings.NewReader(src), ',')
	require.NoError(t, err)

	out, err := DropZeroRows(df, "n_killed", "n_injured")
	require.NoError(t, err)
	assert.Equal(t, []string{"TX", "WA"}, out.Col("state").Records())

	_, err = DropZeroRows(df, "n_guns")
	assert.ErrorIs(t, err, ErrMissingColumn)

	same, err := DropZeroRows(df)
	require.NoError(t, err)
	assert.Equal(t, df.Nrow(), same.Nrow())
}
