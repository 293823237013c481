package api

import (
	"io"
	"net/http"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/pkg/errors"

	"stake_gov/contract"
)

const (
	JSONContentType = "application/json; charset=utf-8"

	maxBodySize = 64 << 10
)

type httpError struct {
	cause  error
	status int
	code   string
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int, code string) error {
	return &httpError{cause: cause, status: status, code: code}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{cause: cause, status: http.StatusBadRequest, code: "bad_request"}
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts a HandlerFunc to http.HandlerFunc. Contract errors are
// mapped onto a status and a stable code; anything unknown is a 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if !errors.As(err, &he) {
			code := contract.ErrorCode(err)
			he = &httpError{cause: err, status: statusForCode(code), code: code}
		}
		w.Header().Set("Content-Type", JSONContentType)
		w.WriteHeader(he.status)
		_ = writeBody(w, errorResponse{Code: he.code, Message: he.cause.Error()})
	}
}

func statusForCode(code string) int {
	switch code {
	case "unauthorized", "not_eligible", "results_not_yet_visible":
		return http.StatusForbidden
	case "invalid_address", "invalid_proposal", "invalid_amount", "amount_overflow":
		return http.StatusBadRequest
	case "proposal_not_found":
		return http.StatusNotFound
	case "already_initialized", "proposal_already_exists", "already_voted",
		"voting_still_open", "voting_closed", "insufficient_stake":
		return http.StatusConflict
	case "not_initialized", "governance_token_not_set":
		return http.StatusPreconditionFailed
	case "transfer_failed":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ParseJSON reads a size-limited request body into v.
func ParseJSON(r io.Reader, v tinyjson.Unmarshaler) error {
	data, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return err
	}
	if len(data) > maxBodySize {
		return errors.New("body too large")
	}
	return tinyjson.Unmarshal(data, v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj tinyjson.Marshaler) error {
	w.Header().Set("Content-Type", JSONContentType)
	return writeBody(w, obj)
}

func writeBody(w io.Writer, obj tinyjson.Marshaler) error {
	jw := jwriter.Writer{}
	obj.MarshalTinyJSON(&jw)
	jw.RawByte('\n')
	if jw.Error != nil {
		return jw.Error
	}
	_, err := jw.DumpTo(w)
	return err
}
