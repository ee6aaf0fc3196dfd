package recipe

import "strings"

// Field is an updatable recipe attribute. The constants are the allow-list.
type Field string

const (
	FieldName        Field = "recipe_name"
	FieldDescription Field = "recipe_description"
	FieldImageURL    Field = "image_url"
	FieldCuisineID   Field = "cuisine_id"
	FieldGoalID      Field = "goal_id"
)

// FieldChange is one attribute assignment of a patch.
type FieldChange struct {
	Field Field
	Value interface{}
}

// Patch is a sparse set of recipe attributes. Nil means absent.
type Patch struct {
	Name        *string
	Description *string
	ImageURL    *string
	CuisineID   *int64
	GoalID      *int64
}

// Changes returns the present, non-blank attributes in allow-list order.
// String values are trimmed.
func (p Patch) Changes() []FieldChange {
	var changes []FieldChange
	addString := func(field Field, v *string) {
		if v == nil {
			return
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			changes = append(changes, FieldChange{Field: field, Value: trimmed})
		}
	}
	addID := func(field Field, v *int64) {
		if v != nil {
			changes = append(changes, FieldChange{Field: field, Value: *v})
		}
	}

	addString(FieldName, p.Name)
	addString(FieldDescription, p.Description)
	addString(FieldImageURL, p.ImageURL)
	addID(FieldCuisineID, p.CuisineID)
	addID(FieldGoalID, p.GoalID)

	return changes
}

// Validate rejects patches that would change nothing or point at invalid ids.
func (p Patch) Validate() error {
	changes := p.Changes()
	if len(changes) == 0 {
		return ErrEmptyPatch
	}
	for _, c := range changes {
		if id, ok := c.Value.(int64); ok && id <= 0 {
			return ErrInvalidReferenceID
		}
	}
	return nil
}
