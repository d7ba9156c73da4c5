package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/go-playground/validator/v10"
)

func TestUsernameValidation(t *testing.T) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("gin binding engine is not the expected validator")
	}

	valid := []string{"bob", "bob_01", "bob.smith", "bob-smith", "BOB"}
	for _, username := range valid {
		req := RegisterRequest{
			Username: username,
			Email:    "x@example.com",
			FullName: "X",
			Password: "long enough pw",
		}
		assert.NoError(t, v.Struct(req), "username %q should pass", username)
	}

	invalid := []string{"bo", "bob smith", "bob/../etc", "bob@home", ""}
	for _, username := range invalid {
		req := RegisterRequest{
			Username: username,
			Email:    "x@example.com",
			FullName: "X",
			Password: "long enough pw",
		}
		assert.Error(t, v.Struct(req), "username %q should fail", username)
	}
}
