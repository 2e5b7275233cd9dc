package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Collects(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err())

	d.AddWarning("no-contract", "Rock has no contract", "Rock")
	d.AddError("ambiguous-contract", "Duck is ambiguous", "Duck", "Swimmer", "Flyer")
	d.AddError("unsatisfied-declaration", "Cat lies", "Cat", "Vehicle")
	d.Add(Diagnostic{Severity: SeverityInfo, Message: "done"})

	require.True(t, d.HasErrors())
	assert.Len(t, d.Errors, 2)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.Equal(t, []string{"Swimmer", "Flyer"}, d.Errors[0].Contracts)

	err := d.Err()
	require.Error(t, err)
	assert.Equal(t, "error: [ambiguous-contract] Duck is ambiguous; error: [unsatisfied-declaration] Cat lies", err.Error())

	all := d.All()
	require.Len(t, all, 4)
	assert.Equal(t, SeverityError, all[0].Severity)
	assert.Equal(t, SeverityInfo, all[3].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddError("x", "first", "A")
	b.AddError("y", "second", "B")
	b.AddWarning("z", "third", "C")
	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}
