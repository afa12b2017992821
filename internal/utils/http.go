package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentTypeFHIRJSON is the media type of resource documents.
const ContentTypeFHIRJSON = "application/fhir+json"

// WriteJSON serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, state, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	return writeEncoded(w, data, statusCode, "application/json")
}

// WriteResource behaves like WriteJSON but labels the body as a resource
// document. Resources and bundles marshal to their raw bytes unchanged.
func WriteResource(w http.ResponseWriter, data any, statusCode int) (int, error) {
	return writeEncoded(w, data, statusCode, ContentTypeFHIRJSON)
}

func writeEncoded(w http.ResponseWriter, data any, statusCode int, contentType string) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
