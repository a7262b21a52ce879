package assignment_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
	testutil "github.com/trezcool/studytrack/tests"
)

func TestTypeService_SeedDefaultTypes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	testutil.CreateType(t, f.typeRepo, assignment.Type{UserID: "u1", Name: "homework", Label: "Devoirs", IsActive: true})

	require.NoError(t, f.types.SeedDefaultTypes(ctx, "u1"))
	require.NoError(t, f.types.SeedDefaultTypes(ctx, "u1"))

	types, err := f.types.Query(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, types, len(assignment.DefaultTypes), "seeding is idempotent")
	for _, typ := range types {
		if typ.Name == "homework" {
			assert.Equal(t, "Devoirs", typ.Label, "existing types are kept")
		}
	}

	others, err := f.types.Query(ctx, "u2", false)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestTypeService_ordering(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	testutil.SeedTypes(t, f.typeRepo, "u1")

	listing, err := f.types.Query(ctx, "u1", true)
	require.NoError(t, err)
	choices, err := f.types.Choices(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listing, len(assignment.DefaultTypes))
	require.Len(t, choices, len(assignment.DefaultTypes))

	// lab & practice share a sort order
	assert.Equal(t, "lab", listing[5].Name, "listings: sort_order then label")
	assert.Equal(t, "practice", listing[6].Name)
	assert.Equal(t, "lab", choices[5].Name, "choices: sort_order then name")
	assert.Equal(t, "homework", choices[0].Name)
	assert.Equal(t, "other", choices[8].Name)
}

func TestTypeService_Get(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	mine := testutil.CreateType(t, f.typeRepo, assignment.Type{UserID: "u1", Name: "reading", IsActive: true})
	theirs := testutil.CreateType(t, f.typeRepo, assignment.Type{UserID: "u2", Name: "reading", IsActive: true})

	got, err := f.types.Get(ctx, "u1", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine, got)

	_, err = f.types.Get(ctx, "u1", theirs.ID)
	assert.True(t, core.IsNotFound(err), "other owners' types are not found")

	_, err = f.types.Get(ctx, "u1", "missing")
	assert.True(t, core.IsNotFound(err))
}

func TestTypeService_CreateUpdateToggle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	validate, _ := testutil.NewValidator()

	nt := assignment.NewType{Name: " Reading ", Label: " Reading "}
	require.NoError(t, nt.Validate(ctx, "u1", validate, f.types))
	typ, err := f.types.Create(ctx, "u1", nt)
	require.NoError(t, err)
	assert.Equal(t, "reading", typ.Name)
	assert.Equal(t, "Reading", typ.Label)
	assert.Equal(t, assignment.DefaultTypeColor, typ.Color)
	assert.True(t, typ.IsActive)
	assert.Equal(t, 0, typ.SortOrder)

	dup := assignment.NewType{Name: "reading", Label: "Again"}
	err = dup.Validate(ctx, "u1", validate, f.types)
	if verr, ok := err.(*core.ValidationError); assert.True(t, ok, "want *core.ValidationError, got %v", err) {
		assert.Equal(t, []core.FieldError{{Field: "name", Error: assignment.ErrTypeNameExists.Error()}}, verr.Fields)
	}
	other := assignment.NewType{Name: "reading", Label: "Reading"}
	assert.NoError(t, other.Validate(ctx, "u2", validate, f.types), "names are unique per owner")

	bad := assignment.NewType{Name: "Read ing!", Label: "Reading"}
	err = bad.Validate(ctx, "u1", validate, f.types)
	if verrs, ok := err.(validator.ValidationErrors); assert.True(t, ok) {
		assert.Equal(t, "name", verrs[0].Field())
		assert.Equal(t, "key", verrs[0].Tag())
	}

	sortOrder := 3
	ut := assignment.UpdateType{Label: "Readings", Color: " SUCCESS ", SortOrder: &sortOrder}
	require.NoError(t, ut.Validate(validate))
	typ, err = f.types.Update(ctx, typ, ut)
	require.NoError(t, err)
	assert.Equal(t, "reading", typ.Name, "the name never changes")
	assert.Equal(t, "Readings", typ.Label)
	assert.Equal(t, "success", typ.Color)
	assert.Equal(t, 3, typ.SortOrder)
	assert.True(t, typ.IsActive)

	typ, outcome, err := f.types.ToggleActive(ctx, typ)
	require.NoError(t, err)
	assert.Equal(t, subject.Deactivated, outcome)
	assert.False(t, typ.IsActive)

	names, err := f.types.ActiveNames(ctx, "u1")
	require.NoError(t, err)
	assert.NotContains(t, names, "reading")

	_, outcome, err = f.types.ToggleActive(ctx, typ)
	require.NoError(t, err)
	assert.Equal(t, subject.Activated, outcome)
}
