package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/scribe/internal/domain"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scribe/internal/logger"
)

// maxSubmissionBytes bounds the inbound JSON payload.
const maxSubmissionBytes = 1 << 20

// Publish accepts a normalized post submission, runs the publishing
// pipeline, and renders the result. This handler is the whole inbound
// adapter: parse, publish, record, respond.
func Publish(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sub domain.PostSubmission
		body := http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sub); err != nil {
			d.Logger.Debug("rejecting malformed submission payload",
				logger.Error(err))
			writeResult(w, http.StatusBadRequest, domain.PublishResult{
				Status:      domain.StatusError,
				ErrorKind:   domain.ErrorKindValidation,
				ErrorDetail: "malformed submission payload",
			})
			return
		}

		d.Logger.Info("publish request",
			logger.String("type", string(sub.Type)),
			logger.String("title", sub.Title),
			logger.String("created_by", sub.CreatedBy))

		result := d.Publisher.Publish(ctx, sub)

		// Journal is observability only; a failed write never changes
		// the response.
		if d.Journal != nil {
			if _, err := d.Journal.Record(ctx, sub, result); err != nil {
				d.Logger.Warn("failed to record publish in journal",
					logger.Error(err))
			}
		}

		writeResult(w, statusCode(result), result)
	}
}

// statusCode maps a publish result to an HTTP status.
func statusCode(res domain.PublishResult) int {
	if res.OK() {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case domain.ErrorKindValidation:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult(w http.ResponseWriter, code int, res domain.PublishResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(res)
}
