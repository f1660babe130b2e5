package handler

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mediplan/booking-api/internal/model"
)

// Custom binding validations used by the request types. Registered at
// import time so every binding path sees them.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.ClockLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseWeekday(fl.Field().String())
		return err == nil
	})
}
