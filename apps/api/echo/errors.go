package echoapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

const validationFailedText = "validation failed"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var resp ErrorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Message = fmt.Sprint(origErr.Message)
		case validator.ValidationErrors:
			resp.Fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				resp.Fields[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			resp.Message = validationMessage(validationFailedText, resp.Fields)
		case *core.ValidationError:
			msg := origErr.Error()
			if msg == "" {
				msg = validationFailedText
			}
			if origErr.Fields != nil {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Fields[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			resp.Message = validationMessage(msg, resp.Fields)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			resp.Message = http.StatusText(http.StatusInternalServerError)
			logger.Error(resp.Message, err, ctx.Request())

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			resp.Message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// validationMessage renders `msg: field1: text1; field2: text2` with fields sorted by name.
func validationMessage(msg string, fields map[string]string) string {
	if len(fields) == 0 {
		return msg
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + fields[name]
	}
	return msg + ": " + strings.Join(parts, "; ")
}
