package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PatchTestSuite struct {
	suite.Suite
}

func (suite *PatchTestSuite) TestChanges() {
	suite.Run("PresentFields_ShouldFollowAllowListOrder", func() {
		// Arrange
		goal := int64(4)
		cuisine := int64(2)
		image := "https://img.example/soup.png"
		name := "Soup"
		patch := Patch{GoalID: &goal, ImageURL: &image, CuisineID: &cuisine, Name: &name}

		// Act
		changes := patch.Changes()

		// Assert
		fields := make([]Field, 0, len(changes))
		for _, c := range changes {
			fields = append(fields, c.Field)
		}
		assert.Equal(suite.T(), []Field{FieldName, FieldImageURL, FieldCuisineID, FieldGoalID}, fields)
	})

	suite.Run("EmptyStrings_ShouldBeSkipped", func() {
		// Arrange
		empty := ""
		description := "Hearty"
		patch := Patch{Name: &empty, Description: &description}

		// Act
		changes := patch.Changes()

		// Assert
		assert.Equal(suite.T(), []FieldChange{{Field: FieldDescription, Value: "Hearty"}}, changes)
	})

	suite.Run("BlankStrings_ShouldBeSkippedAndValuesTrimmed", func() {
		// Arrange
		blank := "   "
		image := "\t"
		description := "  Slow cooked  "
		patch := Patch{Name: &blank, ImageURL: &image, Description: &description}

		// Act
		changes := patch.Changes()

		// Assert
		assert.Equal(suite.T(), []FieldChange{{Field: FieldDescription, Value: "Slow cooked"}}, changes)
	})
}

func (suite *PatchTestSuite) TestValidate() {
	suite.Run("NoFields_ShouldReturnEmptyPatch", func() {
		empty := ""
		assert.ErrorIs(suite.T(), Patch{}.Validate(), ErrEmptyPatch)
		assert.ErrorIs(suite.T(), Patch{Name: &empty}.Validate(), ErrEmptyPatch)
		blank := "  "
		assert.ErrorIs(suite.T(), Patch{Name: &blank}.Validate(), ErrEmptyPatch)
	})

	suite.Run("NonPositiveID_ShouldBeRejected", func() {
		zero := int64(0)
		assert.ErrorIs(suite.T(), Patch{CuisineID: &zero}.Validate(), ErrInvalidReferenceID)
	})

	suite.Run("SingleField_ShouldPass", func() {
		name := "Stew"
		assert.NoError(suite.T(), Patch{Name: &name}.Validate())
	})
}

func TestNewReference(t *testing.T) {
	ref, err := NewReference(KindGoal, "  Weight Loss ")
	assert.NoError(t, err)
	assert.Equal(t, Reference{Kind: KindGoal, Name: "Weight Loss"}, ref)

	_, err = NewReference(KindAllergyTag, "   ")
	assert.ErrorIs(t, err, ErrEmptyReferenceName)
}

func TestReferenceKind_String(t *testing.T) {
	assert.Equal(t, "dietary tag", KindDietaryTag.String())
	assert.Equal(t, "unknown", ReferenceKind(99).String())
}

func TestPatchTestSuite(t *testing.T) {
	suite.Run(t, new(PatchTestSuite))
}
