package response

import (
	"errors"
	"net/http"

	"github.com/titikpos/payroll-backend-go/internal/domain/employee"
	"github.com/titikpos/payroll-backend-go/internal/domain/outlet"
	"github.com/titikpos/payroll-backend-go/internal/domain/payroll"
	"github.com/titikpos/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, outlet.ErrOutletNotFound):
		NotFound(w, "Outlet not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
