package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/joescharf/codereview/internal/apperr"
	"github.com/joescharf/codereview/internal/models"
	"github.com/joescharf/codereview/internal/review"
)

// maxBodyBytes caps the request body before any JSON decoding.
const maxBodyBytes = 1 << 20

type reviewPayload struct {
	Code     json.RawMessage `json:"code"`
	Language json.RawMessage `json:"language"`
}

// decodeReviewRequest validates a review submission. On success the
// language is normalized and the code is within maxCodeLen characters.
// A body that is not declared as JSON is left unread, so it reads as a
// submission without code.
func decodeReviewRequest(w http.ResponseWriter, r *http.Request, maxCodeLen int) (*models.ReviewRequest, *apperr.AppError) {
	if !isJSONContent(r.Header.Get("Content-Type")) {
		return nil, apperr.Validation(apperr.MsgCodeRequired)
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	var p reviewPayload
	if err := dec.Decode(&p); err != nil {
		return nil, decodeError(err)
	}
	// Only whitespace may follow the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, decodeError(err)
		}
		return nil, apperr.Wrap(err, http.StatusBadRequest, apperr.KindValidation, apperr.MsgInvalidJSON)
	}

	code, ok := rawString(p.Code)
	if !ok || code == "" {
		return nil, apperr.Validation(apperr.MsgCodeRequired)
	}
	if appErr := review.ValidateCode(code, maxCodeLen); appErr != nil {
		return nil, appErr
	}

	var language string
	if len(p.Language) > 0 && !isNull(p.Language) {
		if language, ok = rawString(p.Language); !ok {
			return nil, apperr.Validation(apperr.MsgLanguageType)
		}
	}

	return &models.ReviewRequest{Code: code, Language: review.NormalizeLanguage(language)}, nil
}

func decodeError(err error) *apperr.AppError {
	var tooBig *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooBig):
		return apperr.Wrap(err, http.StatusRequestEntityTooLarge, apperr.KindValidation, apperr.MsgBodyTooLarge)
	case errors.As(err, &typeErr):
		return apperr.Wrap(err, http.StatusBadRequest, apperr.KindValidation, apperr.MsgCodeRequired)
	case errors.Is(err, io.EOF):
		return apperr.Wrap(err, http.StatusBadRequest, apperr.KindValidation, apperr.MsgCodeRequired)
	default:
		return apperr.Wrap(err, http.StatusBadRequest, apperr.KindValidation, apperr.MsgInvalidJSON)
	}
}

func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
