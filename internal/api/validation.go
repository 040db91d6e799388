package api

import (
	"reflect" // Field inspection
	"sync"    // One-time registration

	"rootine/internal/service" // Grid bounds

	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Validator library
)

var registerOnce sync.Once

// registerValidators adds the custom binding tags used by request structs
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("gridpos", validGridPos)
		}
	})
}

// validGridPos accepts an [x, y] pair inside the garden grid
func validGridPos(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Slice && f.Kind() != reflect.Array {
		return false
	}
	if f.Len() != 2 {
		return false
	}
	return service.InGrid(int(f.Index(0).Int()), int(f.Index(1).Int()))
}
