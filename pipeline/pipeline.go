package pipeline

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"smartkop/apperr"
	"smartkop/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler is an httprouter handle that reports failure instead of writing
// error responses itself. Every route goes through Wrap so that errors reach
// exactly one rendering path.
type Handler func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error

// Renderer is the terminal error-formatting stage shared by all routes.
type Renderer struct {
	Verbose bool
}

// Wrap adapts a Handler to httprouter, funneling any returned error or panic
// into the renderer.
func (re *Renderer) Wrap(next Handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				re.render(w, apperr.New(apperr.Internal, "Internal server error"))
			}
		}()

		if err := next(w, r, ps); err != nil {
			re.render(w, err)
		}
	}
}

func (re *Renderer) render(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	if re.Verbose {
		// Prefer the trace captured where the error was built; fall back
		// to the render site for untyped errors.
		stack := debug.Stack()
		var ae *apperr.Error
		if errors.As(err, &ae) && len(ae.Stack()) > 0 {
			stack = ae.Stack()
		}

		utils.RespondWithJSON(w, status, map[string]any{
			"success":    false,
			"error":      kind.String(),
			"errMessage": err.Error(),
			"stack":      string(stack),
		})
		return
	}

	if kind == apperr.Internal {
		log.Printf("internal error: %v", err)
	}
	utils.RespondWithJSON(w, status, map[string]any{
		"success": false,
		"message": apperr.MessageOf(err),
	})
}
