package helpers

import (
	"github.com/gookit/validate"

	"github.com/centimehq/centime/models"
)

type CreateCategoryParams struct {
	Name string                 `json:"name" form:"name" validate:"required"`
	Kind models.TransactionKind `json:"kind" form:"kind" validate:"required|ValidateKind"`
}

func (p CreateCategoryParams) Messages() map[string]string {
	return validate.MS{
		"required":     "category.missing_{field}",
		"ValidateKind": "category.invalid_kind",
	}
}

func (p CreateCategoryParams) ValidateKind(Kind models.TransactionKind) bool {
	return Kind.Valid()
}

type UpdateCategoryParams struct {
	Name *string                 `json:"name" form:"name"`
	Kind *models.TransactionKind `json:"kind" form:"kind" validate:"ValidateKind"`
}

func (p UpdateCategoryParams) Messages() map[string]string {
	return validate.MS{
		"ValidateKind": "category.invalid_kind",
	}
}

func (p UpdateCategoryParams) ValidateKind(Kind *models.TransactionKind) bool {
	if Kind == nil {
		return true
	}

	return Kind.Valid()
}
