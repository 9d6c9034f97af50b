package handler

import (
	"taskboard/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the board's custom tags to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("taskstatus", validTaskStatus)
}

// taskstatus: значение должно быть одной из колонок доски
func validTaskStatus(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).Valid()
}
