package web

import (
	"github.com/gin-gonic/gin"
)

// Handler is the signature every controller method implements. The returned
// error is already written to the client by RespondError; it is surfaced
// here only so middlewares can observe it.
type Handler func(c *Context) error

// Middleware wraps a Handler with pre/post behavior.
type Middleware func(Handler) Handler

// App is a thin wrapper around gin that lets the rest of the code work with
// the Handler signature instead of gin.HandlerFunc.
type App struct {
	*gin.Engine
	mw []Middleware
}

func NewApp(mw ...Middleware) *App {
	gin.SetMode(gin.ReleaseMode)

	return &App{
		Engine: gin.New(),
		mw:     mw,
	}
}

func (a *App) handle(method, path string, handler Handler, mw []Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	a.Engine.Handle(method, path, func(c *gin.Context) {
		ctx := &Context{
			Context: c,
			Ctx:     c.Request.Context(),
		}

		_ = handler(ctx)
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle("GET", path, handler, mw)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle("POST", path, handler, mw)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle("PUT", path, handler, mw)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle("PATCH", path, handler, mw)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle("DELETE", path, handler, mw)
}

func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}

	return handler
}
