// Package server exposes the layout engine over HTTP.
//
// Layout runs are asynchronous: POST /api/v1/jobs accepts a graph
// document plus a layout configuration, responds 202 with a job ID, and
// a bounded worker pool computes the layout in the background. Clients
// poll GET /api/v1/jobs/{id} for state and progress, fetch the
// positioned graph from GET /api/v1/jobs/{id}/result, and cancel with
// DELETE /api/v1/jobs/{id}.
//
// Structural analysis is cheap enough to run synchronously, so
// POST /api/v1/analyze returns its result inline. When a catalog is
// configured, named input graphs are managed under /api/v1/graphs.
//
// Routes:
//
//	GET    /healthz                  liveness, version, registered algorithms
//	POST   /api/v1/jobs              submit a layout job (202 + job)
//	GET    /api/v1/jobs/{id}         job state and progress
//	GET    /api/v1/jobs/{id}/result  positioned graph, once done
//	DELETE /api/v1/jobs/{id}         cancel a queued or running job
//	POST   /api/v1/analyze           synchronous structural analysis
//	GET    /api/v1/graphs            list catalog entries
//	PUT    /api/v1/graphs/{name}     upsert a named graph
//	GET    /api/v1/graphs/{name}     fetch a named graph
//	DELETE /api/v1/graphs/{name}     remove a named graph
//
// Errors are JSON bodies of the form {"error": {"code", "message"}},
// using the codes from pkg/errors.
package server
