package inspect

import (
	"net/http"
	"strings"

	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/graph"
	gohttp "github.com/km-arc/go-simple-di/framework/http"
	"github.com/km-arc/go-simple-di/framework/logging"
	"github.com/km-arc/go-simple-di/framework/validation"
)

var newResponse = gohttp.NewResponse

// moduleView is a ModuleInfo plus the number of times it was built while
// the server was watching.
type moduleView struct {
	container.ModuleInfo
	Resolutions int `json:"resolutions"`
}

func (s *Server) view(info container.ModuleInfo) moduleView {
	return moduleView{ModuleInfo: info, Resolutions: s.resolutions(info.Name)}
}

// GET /healthz
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	newResponse(w).Success(map[string]any{
		"status":  "ok",
		"modules": len(s.c.Names()),
	})
}

// GET /modules
func (s *Server) listModules(w http.ResponseWriter, _ *http.Request) {
	infos := s.c.Modules()
	views := make([]moduleView, len(infos))
	for i, info := range infos {
		views[i] = s.view(info)
	}
	newResponse(w).Success(views)
}

// GET /modules/{name}
func (s *Server) showModule(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := newResponse(w)

	name := req.RouteParam("name")
	info, ok := s.c.Lookup(name)
	if !ok {
		logging.FromContext(req.Context()).Debug("module not found", "module", name)
		res.NotFound("Module '" + name + "' is not registered.")
		return
	}
	res.Success(s.view(info))
}

// GET /modules/{name}/graph?format=json|text
func (s *Server) moduleGraph(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := newResponse(w)

	v := validation.Make(req.QueryAll(), validation.Rules{
		"format": "nullable|in:json,text",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	name := req.RouteParam("name")
	tree, ok := graph.Tree(s.c, name)
	if !ok {
		res.NotFound("Module '" + name + "' is not registered.")
		return
	}

	if strings.EqualFold(req.Query("format", "json"), "text") {
		res.Text(http.StatusOK, graph.Render(tree, graph.Label))
		return
	}
	res.Success(tree)
}

// GET /tags/{tag}
func (s *Server) tagged(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	tag := req.RouteParam("tag")

	names := s.c.Tagged(tag)
	if names == nil {
		names = []string{}
	}
	newResponse(w).Success(map[string]any{
		"tag":     tag,
		"modules": names,
	})
}

// GET /check
func (s *Server) check(w http.ResponseWriter, _ *http.Request) {
	problems := graph.Check(s.c)
	if problems == nil {
		problems = []graph.Problem{}
	}
	newResponse(w).Success(map[string]any{
		"ok":       len(problems) == 0,
		"problems": problems,
	})
}
