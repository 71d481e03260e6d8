package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	diags := []Diagnostic{
		{File: "b.php", Line: 1},
		{File: "a.php", Line: 20},
		{File: "a.php", Line: 4, Column: 2},
		{File: "a.php", Line: 4, Column: 0},
	}

	Sort(diags)

	want := []Diagnostic{
		{File: "a.php", Line: 4, Column: 0},
		{File: "a.php", Line: 4, Column: 2},
		{File: "a.php", Line: 20},
		{File: "b.php", Line: 1},
	}
	assert.Equal(t, want, diags)
}

func TestSort_Stable(t *testing.T) {
	diags := []Diagnostic{
		{File: "a.php", Line: 4, Message: "first"},
		{File: "a.php", Line: 4, Message: "second"},
	}

	Sort(diags)

	assert.Equal(t, "first", diags[0].Message)
	assert.Equal(t, "second", diags[1].Message)
}
