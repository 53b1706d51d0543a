package routewire

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HandlePost registers a body-accepting endpoint at route. The request body is
// decoded into Req, validated, and handed to fn together with the request
// context. The result is encoded as the JSON response.
func HandlePost[Req, Res any](mux *http.ServeMux, route string, fn func(Req, context.Context) (Res, error)) {
	mux.HandleFunc("POST "+route, func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeBody[Req](r)
		if err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		res, err := fn(req, r.Context())
		if err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		writeResult(w, res)
	})
}

// HandlePostVoid registers a body-accepting endpoint for a method with no result.
// A successful call answers 204 No Content.
func HandlePostVoid[Req any](mux *http.ServeMux, route string, fn func(Req, context.Context) error) {
	mux.HandleFunc("POST "+route, func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeBody[Req](r)
		if err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		if err := fn(req, r.Context()); err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// HandleGet registers a bodiless endpoint at route. fn receives only the
// request context; the result is encoded as the JSON response.
func HandleGet[Res any](mux *http.ServeMux, route string, fn func(context.Context) (Res, error)) {
	mux.HandleFunc("GET "+route, func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r.Context())
		if err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		writeResult(w, res)
	})
}

// HandleGetVoid registers a bodiless endpoint for a method with no result.
func HandleGetVoid(mux *http.ServeMux, route string, fn func(context.Context) error) {
	mux.HandleFunc("GET "+route, func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			writeError(w, DefaultErrorTransformer(err), nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// decodeBody decodes the JSON request body into Req and validates it.
func decodeBody[Req any](r *http.Request) (Req, error) {
	var req Req
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, Errorf(CodeInvalidArgument, "failed to decode body: %v", err)
		}
	}
	if err := validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// Non-struct payloads (maps, slices) are not validatable; let them through.
			return req, nil
		}
		return req, err
	}
	return req, nil
}

func writeResult(w http.ResponseWriter, res any) {
	w.Header().Set("Content-Type", "application/json")
	if err := encodeJSON(w, res); err != nil {
		// Response may be partially written, nothing we can do. Log for debugging.
		slog.Default().Error("failed to encode response", slog.Any("error", err))
	}
}

func encodeJSON(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}
