package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
	"github.com/trezcool/dotcoder/core/ai"
	"github.com/trezcool/dotcoder/core/blog"
	"github.com/trezcool/dotcoder/core/chapter"
	"github.com/trezcool/dotcoder/core/cheatsheet"
	"github.com/trezcool/dotcoder/core/practice"
	"github.com/trezcool/dotcoder/core/thread"
	"github.com/trezcool/dotcoder/core/user"
)

const (
	msgNotAuthorized    = "Not authorized"
	msgValidationFailed = "Validation failed"
	msgServerError      = "Server Error"
	msgMissingToken     = "Not authorized, no token"
)

type errCode struct {
	err  error
	code int
}

// domainErrCodes maps the domain sentinel errors to their HTTP status; the error text is the message.
var domainErrCodes = []errCode{
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{chapter.ErrChapterNotFound, http.StatusNotFound},
	{chapter.ErrQuestionNotFound, http.StatusNotFound},
	{cheatsheet.ErrNotFound, http.StatusNotFound},
	{cheatsheet.ErrItemNotFound, http.StatusNotFound},
	{blog.ErrNotFound, http.StatusNotFound},
	{blog.ErrInvalidAction, http.StatusBadRequest},
	{thread.ErrNotFound, http.StatusNotFound},
	{thread.ErrReplyNotFound, http.StatusNotFound},
	{practice.ErrTestNotFound, http.StatusNotFound},
	{practice.ErrMindmapNotFound, http.StatusNotFound},
	{practice.ErrInvalidQuestionIndex, http.StatusBadRequest},
	{core.ErrPermissionDenied, http.StatusForbidden},
}

// exposedErrs are server errors whose text is meant for the client.
var exposedErrs = []error{ai.ErrNotConfigured, ai.ErrTagExtraction}

func domainErrCode(err error) (int, bool) {
	for _, ec := range domainErrCodes {
		if err == ec.err {
			return ec.code, true
		}
	}
	return 0, false
}

func isExposed(err error) bool {
	for _, e := range exposedErrs {
		if err == e {
			return true
		}
	}
	return false
}

// denied turns core.ErrPermissionDenied into the status and message the resource uses; other errors pass through.
func denied(err error, code int, msg string) error {
	if errors.Cause(err) == core.ErrPermissionDenied {
		return echo.NewHTTPError(code, msg)
	}
	return err
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders every error as `{success: false, message}`.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		resp := errorResponse{Success: false}
		var code int

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				resp.Message = msgMissingToken
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				resp.Message = m
			} else {
				resp.Message = fmt.Sprint(origErr.Message)
			}
		case validator.ValidationErrors:
			resp.Errors = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				resp.Errors[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			resp.Message = msgValidationFailed
		case *core.ValidationError:
			if origErr.Fields != nil {
				resp.Errors = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Errors[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
		case thread.DailyLimitError:
			code = http.StatusTooManyRequests
			resp.Message = origErr.Error()
		default:
			if c, ok := domainErrCode(cause); ok {
				code = c
				resp.Message = cause.Error()
				if cause == core.ErrPermissionDenied {
					resp.Message = msgNotAuthorized
				}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			resp.Message = msgServerError
			if isExposed(cause) || ctx.Echo().Debug {
				resp.Message = cause.Error()
			}

			var actor core.Actor
			if usr, uErr := getContextUser(ctx); uErr == nil {
				actor = usr.Actor()
			}
			logger.Error(msgServerError, errors.Wrap(err, msgServerError), actor)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
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
