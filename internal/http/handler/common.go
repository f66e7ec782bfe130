package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// respondValidationError sends per-field messages for request validation
func respondValidationError(w http.ResponseWriter, err error) {
	fieldErrors := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fieldErrors[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fieldErrors,
	})
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// decodeAndValidate parses the JSON body into target and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseID reads a UUID path parameter
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", param))
		return uuid.Nil, false
	}
	return id, true
}

// paging reads page/pageSize query parameters with sane bounds
func paging(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

// respondServiceError translates service and workflow failures into HTTP
// status codes. Workflow rule violations surface as 409 so clients can show
// the rule text; unknown errors fall through to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, workflow.ErrProcessNotFound):
		respondError(w, http.StatusNotFound, "Resource not found")

	case errors.Is(err, service.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, workflow.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrWrongJobType),
		errors.Is(err, service.ErrDesignNotRequired),
		errors.Is(err, service.ErrDesignAlreadyDone),
		errors.Is(err, service.ErrNotDelivered),
		errors.Is(err, service.ErrJobCompleted),
		errors.Is(err, service.ErrPhaseHeld),
		errors.Is(err, service.ErrPhaseNotHeld),
		errors.Is(err, service.ErrStaffAssigned),
		errors.Is(err, service.ErrReportMissing),
		errors.Is(err, workflow.ErrSequenceGate),
		errors.Is(err, workflow.ErrProcessNotCompleted),
		errors.Is(err, workflow.ErrProgrammingIncomplete),
		errors.Is(err, workflow.ErrProgrammingPending),
		errors.Is(err, workflow.ErrNoEligibleProcess),
		errors.Is(err, workflow.ErrDuplicateRequest),
		errors.Is(err, workflow.ErrNoPendingRequest),
		errors.Is(err, workflow.ErrAlreadyOnHold),
		errors.Is(err, workflow.ErrNotOnHold),
		errors.Is(err, workflow.ErrFinalQcNotApproved):
		respondError(w, http.StatusConflict, err.Error())

	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
