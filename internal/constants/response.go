package constants

// Standard Response Field Keys
const (
	ResponseFieldSuccess = "success"
	ResponseFieldMessage = "message"
	ResponseFieldData    = "data"
	ResponseFieldErrors  = "errors"
)

// Response Format Functions

// BuildSuccessResponse builds the standard success envelope around a payload.
func BuildSuccessResponse(message string, data any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}

	if data != nil {
		response[ResponseFieldData] = data
	}

	return response
}

// BuildErrorResponse builds the standard failure envelope. The errors value
// carries per-field validation details when present.
func BuildErrorResponse(message string, errs any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}

	if errs != nil {
		response[ResponseFieldErrors] = errs
	}

	return response
}
