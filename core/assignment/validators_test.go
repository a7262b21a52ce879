package assignment

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studytrack/core"
)

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	translator, ok := ut.New(_en, _en).GetTranslator("en")
	require.True(t, ok)

	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func TestNewAssignment_Validate(t *testing.T) {
	validate, translator := newValidator(t)
	activeTypes := []string{"homework", "exam"}
	intPtr := func(i int) *int { return &i }

	valid := func() NewAssignment {
		return NewAssignment{Name: " Essay ", Type: "homework", DueDate: "2024-03-15T09:00:00Z", Priority: " High "}
	}

	tests := []struct {
		name      string
		mutate    func(na *NewAssignment)
		wantField string
		wantText  string
	}{
		{name: "valid"},
		{name: "date only", mutate: func(na *NewAssignment) { na.DueDate = "2024-03-15" }},
		{name: "no priority", mutate: func(na *NewAssignment) { na.Priority = "" }},
		{name: "zero points", mutate: func(na *NewAssignment) { na.Points = intPtr(0) }},
		{name: "no name", mutate: func(na *NewAssignment) { na.Name = "  " }, wantField: "name", wantText: "this field is required"},
		{name: "no type", mutate: func(na *NewAssignment) { na.Type = "" }, wantField: "type", wantText: "this field is required"},
		{name: "inactive type", mutate: func(na *NewAssignment) { na.Type = "quiz" }, wantField: "type", wantText: "the selected type is invalid"},
		{name: "no due date", mutate: func(na *NewAssignment) { na.DueDate = "" }, wantField: "due_date", wantText: "this field is required"},
		{name: "bad due date", mutate: func(na *NewAssignment) { na.DueDate = "tomorrow" }, wantField: "due_date", wantText: "due_date is not a valid date"},
		{name: "bad priority", mutate: func(na *NewAssignment) { na.Priority = "urgent" }, wantField: "priority"},
		{name: "negative points", mutate: func(na *NewAssignment) { na.Points = intPtr(-1) }, wantField: "points"},
		{name: "too many points", mutate: func(na *NewAssignment) { na.Points = intPtr(1001) }, wantField: "points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			na := valid()
			if tt.mutate != nil {
				tt.mutate(&na)
			}
			err := na.Validate(context.Background(), activeTypes, validate)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Essay", na.Name)
				return
			}

			verrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field())
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, verrs[0].Translate(translator))
			}
		})
	}

	na := valid()
	require.NoError(t, na.Validate(context.Background(), activeTypes, validate))
	assert.Equal(t, PriorityHigh, na.Priority, "priority is lowercased")
}
