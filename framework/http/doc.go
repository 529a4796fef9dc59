// Package http provides small request and response helpers for the
// framework's JSON endpoints.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	name   := req.RouteParam("name")   // chi route parameter
//	format := req.Query("format", "json")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(modules)               // 200 {"data": modules}
//	res.NotFound("Unknown module.")    // 404 {"message": "..."}
//	res.ValidationError(v.Errors())    // 422 {"errors": {...}}
//	res.Text(http.StatusOK, tree)      // text/plain
package http
