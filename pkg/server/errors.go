// Copyright (c) 2025, Tilefort Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tilefort/tilefort/pkg/layer"
	"github.com/tilefort/tilefort/pkg/serializer"
)

// Error codes as constants
const (
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeLayerNotFound      = "LAYER_NOT_FOUND"
	ErrCodeConfigurationError = "CONFIGURATION_ERROR"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"requestId"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// WriteError writes an error response with the request's ID attached.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]interface{}) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// writeRegistryError maps registry errors onto HTTP status codes: unknown
// layer to 404, configuration failure to 503 (retryable), anything else to
// 500.
func writeRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case layer.IsUnknownLayer(err):
		WriteError(w, r, http.StatusNotFound, ErrCodeLayerNotFound,
			err.Error(), false, nil)
	case layer.IsConfigurationError(err):
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeConfigurationError,
			err.Error(), true, nil)
	default:
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
			err.Error(), true, nil)
	}
}
