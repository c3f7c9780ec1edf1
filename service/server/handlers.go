package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/perkline/sponsor/service/gasless"
	"github.com/perkline/sponsor/service/metrics"
	natspkg "github.com/perkline/sponsor/service/nats"
)

const (
	maxRequestBodySize = 1 << 20 // 1MB - plenty for a transfer request
)

// transferResponse is the JSON response format for a prepared transfer.
type transferResponse struct {
	Success               bool   `json:"success"`
	SerializedTransaction string `json:"serializedTransaction"`
	Message               string `json:"message"`
	TransactionType       string `json:"transactionType"`
	EstimatedFee          uint64 `json:"estimatedFee"`
}

// errorResponse is the JSON response format for any failure.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleCreateGaslessTransfer returns a handler that prepares a fee-sponsored
// transfer: the fee payer signs its slot, the sender's slot stays empty for
// client-side signing.
// POST /api/v1/transactions/gasless
func handleCreateGaslessTransfer(svc *gasless.Service, publisher natspkg.Publisher, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Limit request body size to prevent memory exhaustion
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		var req gasless.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode transfer request", "error", err)
			if strings.Contains(err.Error(), "http: request body too large") {
				writeError(w, "request body too large: maximum size is 1MB", http.StatusBadRequest)
				return
			}
			writeError(w, "invalid request body: must be valid JSON", http.StatusBadRequest)
			return
		}

		prepared, err := svc.Prepare(r.Context(), &req)
		if err != nil {
			status, message := mapPrepareError(err)
			if status >= http.StatusInternalServerError {
				logger.Error("failed to prepare transfer",
					"sender", req.SenderAddress,
					"recipient", req.RecipientAddress,
					"error", err,
				)
			} else {
				logger.Debug("rejected transfer request", "error", err)
			}
			writeError(w, message, status)
			return
		}

		// Publish the prepared-transfer event. Fire-and-forget: the response
		// must not depend on the event bus being up.
		if publisher != nil {
			event := natspkg.FromPreparedTransfer(prepared)
			start := time.Now()
			pubErr := publisher.PublishTransferPrepared(r.Context(), event)
			if m != nil {
				status := "success"
				if pubErr != nil {
					status = "error"
				}
				// Label with the stream pattern, not the per-sender subject,
				// to keep metric cardinality bounded.
				m.RecordNATSPublish(natspkg.StreamSubjects, status, time.Since(start).Seconds())
			}
			if pubErr != nil {
				logger.Warn("failed to publish transfer event", "event_id", event.ID, "error", pubErr)
			}
		}

		writeJSON(w, transferResponse{
			Success:               true,
			SerializedTransaction: prepared.SerializedTransaction,
			Message:               prepared.Message,
			TransactionType:       string(prepared.TransferType),
			EstimatedFee:          prepared.EstimatedFee,
		}, http.StatusOK)
	})
}

// mapPrepareError converts a pipeline error into an HTTP status and a
// client-facing message. Validation and token-address problems carry their
// own text; build and assembly failures get a generic message so internal
// details never reach the caller unformatted.
func mapPrepareError(err error) (int, string) {
	var vErr *gasless.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}

	var tErr *gasless.TokenAddressError
	if errors.As(err, &tErr) {
		return http.StatusBadRequest, tErr.Error()
	}

	var cErr *gasless.ConfigError
	if errors.As(err, &cErr) {
		return http.StatusInternalServerError, cErr.Error()
	}

	var bErr *gasless.BuildError
	if errors.As(err, &bErr) {
		return http.StatusInternalServerError, "failed to build transfer instructions"
	}

	var aErr *gasless.AssemblyError
	if errors.As(err, &aErr) {
		return http.StatusInternalServerError, "failed to assemble transaction"
	}

	return http.StatusInternalServerError, "internal server error"
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response in the service's error envelope.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: message,
	})
}
