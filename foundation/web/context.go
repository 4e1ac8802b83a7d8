package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context wraps gin's context with a request scoped context.Context and the
// query/param validation bookkeeping controllers rely on.
type Context struct {
	*gin.Context
	Ctx context.Context

	queryErrors map[string]string
	paramErrors map[string]string
}

// GetQueryFunc parses the named query parameter into a pointer of the
// requested kind. A missing parameter yields a typed nil pointer so callers
// can keep the two-value type assertion pattern; a malformed value is
// recorded and reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok || value == "" {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.addQueryError(name, "must be an integer")
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok || value == "" {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.addQueryError(name, "must be a boolean")
			return (*bool)(nil)
		}
		return &v
	case reflect.Float64:
		if !ok || value == "" {
			return (*float64)(nil)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			c.addQueryError(name, "must be a number")
			return (*float64)(nil)
		}
		return &v
	case reflect.String:
		if !ok || value == "" {
			return (*string)(nil)
		}
		return &value
	}

	c.addQueryError(name, fmt.Sprintf("unsupported query kind: %s", kind))

	return nil
}

// GetParam parses the named path parameter into a value of the requested
// kind. Parse failures are recorded and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.addParamError(name, "must be an integer")
			return 0
		}
		return v
	case reflect.String:
		return value
	}

	c.addParamError(name, fmt.Sprintf("unsupported param kind: %s", kind))

	return nil
}

func (c *Context) addQueryError(name, message string) {
	if c.queryErrors == nil {
		c.queryErrors = map[string]string{}
	}
	c.queryErrors[name] = message
}

func (c *Context) addParamError(name, message string) {
	if c.paramErrors == nil {
		c.paramErrors = map[string]string{}
	}
	c.paramErrors[name] = message
}

// ValidQuery reports accumulated query string parse failures.
func (c *Context) ValidQuery() error {
	if len(c.queryErrors) == 0 {
		return nil
	}

	return &Error{
		Err:    errors.New("invalid query parameters"),
		Status: http.StatusBadRequest,
		Fields: c.queryErrors,
	}
}

// ValidParam reports accumulated path parameter parse failures.
func (c *Context) ValidParam() error {
	if len(c.paramErrors) == 0 {
		return nil
	}

	return &Error{
		Err:    errors.New("invalid path parameters"),
		Status: http.StatusBadRequest,
		Fields: c.paramErrors,
	}
}

// BindFunc binds the request body (JSON or form) into data and verifies the
// named struct fields were provided.
func (c *Context) BindFunc(data interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(data); err != nil {
		return &Error{
			Err:    errors.Wrap(err, "parsing request body"),
			Status: http.StatusBadRequest,
		}
	}

	fields := map[string]string{}
	v := reflect.ValueOf(data).Elem()

	for _, field := range requiredFields {
		for _, name := range strings.Split(field, ",") {
			name = strings.TrimSpace(name)
			f := v.FieldByName(name)
			if !f.IsValid() {
				continue
			}
			if f.IsZero() {
				fields[name] = "required field"
			}
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("missing required fields"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// Respond writes data as JSON with the given status code.
func (c *Context) Respond(data interface{}, statusCode int) error {
	c.JSON(statusCode, data)
	return nil
}

// RespondError writes the error to the client. Trusted *Error values keep
// their status and reason code; anything else becomes a 500 without leaking
// internals.
func (c *Context) RespondError(err error) error {
	if webErr, ok := err.(*Error); ok {
		body := map[string]interface{}{
			"status": false,
			"error":  webErr.Err.Error(),
		}
		if webErr.Code != "" {
			body["code"] = webErr.Code
		}
		if len(webErr.Fields) > 0 {
			body["fields"] = webErr.Fields
		}
		c.JSON(webErr.Status, body)
		return err
	}

	c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status": false,
		"error":  "internal server error",
	})

	return err
}
