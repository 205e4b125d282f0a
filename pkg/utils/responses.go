package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

// ResponseError writes a failed envelope; 2xx codes are never passed here.
func ResponseError(w http.ResponseWriter, code int, message string, errors any) {
	ResponseJSON(w, code, false, message, nil, errors)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ------------- Error responses -------------

func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, message, errors)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message, nil)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message, nil)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message, nil)
}

func ResponseConflict(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusConflict, message, nil)
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, nil)
}
