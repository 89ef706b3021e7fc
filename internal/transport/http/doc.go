// Package http implements the HTTP request handlers of the SalesPulse API.
// Handlers stay thin: they parse and validate requests, call a service and
// format the response.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. Services are consumed through interfaces so tests can mock them
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Engine
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Routes
//
//	POST   /api/uploads                 upload an .xlsx or .csv file
//	GET    /api/uploads                 list live uploads
//	GET    /api/uploads/{id}            upload summary
//	DELETE /api/uploads/{id}            discard an upload
//	PUT    /api/uploads/{id}/mapping    override column mapping entries
//	POST   /api/uploads/{id}/clean      clean the upload (?min_score=)
//	GET    /api/uploads/{id}/export     download cleaned rows (?format=xlsx|csv)
//	POST   /api/automap                 propose a mapping for a header row
//	POST   /api/clean                   clean rows carried in the body
//	POST   /api/forecast                forecast an explicit series
//	POST   /api/forecast/uploads/{id}   forecast a series built from an upload
//	GET    /api/forecast/methods        supported forecast methods
//
// # Error Handling
//
// All errors follow the RFC 7807 Problem Details specification:
//
//	{
//	    "type": "/errors/forecast/insufficient-data",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "At least 3 periods of data are needed to forecast; got 2",
//	    "error_code": "INSUFFICIENT_DATA",
//	    "instance": "/api/forecast"
//	}
//
// Forecast failures keep the engine's code and message. Data problems are
// answered with 422 and bad parameters with 400.
//
// # Testing
//
// Handlers are tested using httptest with testify/mock service doubles.
package http
