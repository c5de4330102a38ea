// Package ctrlcatalog serves the catalog as a JSON API.
package ctrlcatalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/discobase/discobase/catalog"
	"github.com/discobase/discobase/changeset"
)

type Controller struct {
	store *catalog.Store
}

func New(store *catalog.Store) *Controller {
	return &Controller{store: store}
}

type Response struct {
	code int
	body interface{}
}

func NewResponse(body interface{}) *Response {
	return &Response{code: http.StatusOK, body: body}
}

func NewError(code int, format string, a ...interface{}) *Response {
	return &Response{
		code: code,
		body: map[string]string{"error": fmt.Sprintf(format, a...)},
	}
}

// respError maps catalog errors onto responses, keeping changeset field
// errors intact for clients.
func respError(err error) *Response {
	var csErr *changeset.Error
	switch {
	case errors.As(err, &csErr):
		return &Response{
			code: http.StatusUnprocessableEntity,
			body: map[string]interface{}{"errors": csErr.Fields},
		}
	case errors.Is(err, catalog.ErrNotFound):
		return NewError(http.StatusNotFound, "%v", err)
	default:
		return NewError(http.StatusInternalServerError, "%v", err)
	}
}

type handlerCatalog func(r *http.Request) *Response

func (c *Controller) H(h handlerCatalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := h(r)
		if response == nil {
			log.Println("error: catalog handler returned a nil response")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(response.code)
		if err := json.NewEncoder(w).Encode(response.body); err != nil {
			log.Printf("error writing catalog response: %v\n", err)
		}
	})
}
