package server

import (
	"encoding/json"
	"net/http"
)

type status int

const (
	statusSuccess status = 1
	statusFailed  status = 2
)

// Stable machine codes carried in the error envelope.
const (
	codeValidation       = "400"
	codeServerError      = "500"
	codeProductRetrieval = "PRD001"
	codeOrderCreation    = "ORD001"
	codeMessageQueue     = "RMQ001"
)

// response is the uniform envelope for every query and command.
type response struct {
	Status        status `json:"status"`
	ResultMessage string `json:"resultMessage"`
	ErrorCode     string `json:"errorCode,omitempty"`
	Data          any    `json:"data,omitempty"`
}

func success(data any, message string) response {
	return response{Status: statusSuccess, ResultMessage: message, Data: data}
}

func failure(message, errorCode string, data any) response {
	return response{Status: statusFailed, ResultMessage: message, ErrorCode: errorCode, Data: data}
}

func writeJSON(w http.ResponseWriter, httpStatus int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
