package helpers

import "github.com/gookit/validate"

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Validate(payload interface{}, errSrc *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				errSrc.Errors = append(errSrc.Errors, err)
			}
		}
	}
}

const DateLayout = "2006-01-02"
