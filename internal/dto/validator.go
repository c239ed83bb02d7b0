package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/QuadricIT2018/az-conference-app-mvp/internal/eventday"
)

// RegisterValidators 注册自定义校验标签
//
//	date10: 字符串以合法的 YYYY-MM-DD 日期开头
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("date10", validateDate10)
}

func validateDate10(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, ok = eventday.ParseDate(s)
	return ok
}
