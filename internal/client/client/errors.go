package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobhub/internal/common"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// mapError converts a transport failure into the common taxonomy. A caller
// cancelling its own context gets context.Canceled back untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}

// mapStatus turns a non-2xx response into a *common.BackendError. The
// message is taken from a JSON {message} body, then from a plain text body,
// and finally from the status text.
func mapStatus(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	} else if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		msg = strings.TrimSpace(string(data))
	}

	return common.NewBackendError(resp.StatusCode, msg)
}
