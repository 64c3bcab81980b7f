package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "IlliniSpots API",
        "description": "Campus room availability for academic buildings and library study rooms",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Facilities", "description": "Campus-wide availability snapshot"},
        {"name": "Schedules", "description": "Per-room day schedules and exports"},
        {"name": "Observability", "description": "Health, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "Metrics exposition"}
                }
            }
        },
        "/api/v1/facilities": {
            "get": {
                "tags": ["Facilities"],
                "summary": "Campus-wide facility availability snapshot",
                "parameters": [
                    {"name": "academic", "in": "query", "type": "boolean", "description": "Include academic buildings (default true)"},
                    {"name": "libraries", "in": "query", "type": "boolean", "description": "Include libraries (default true)"},
                    {"name": "minDuration", "in": "query", "type": "integer", "description": "Minimum free minutes"},
                    {"name": "freeUntil", "in": "query", "type": "string", "description": "Room must stay free until HH:mm"},
                    {"name": "startTime", "in": "query", "type": "string", "description": "Room must still be free at HH:mm"}
                ],
                "responses": {
                    "200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Booking service unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/room-schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "One room's day schedule as hourly blocks",
                "parameters": [
                    {"name": "buildingId", "in": "query", "type": "string", "required": true},
                    {"name": "room", "in": "query", "type": "string", "required": true},
                    {"name": "relative", "in": "query", "type": "boolean", "description": "Trim to the remainder of the day"}
                ],
                "responses": {
                    "200": {"description": "Schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown building", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/room-schedule/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download one room's day schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "buildingId", "in": "query", "type": "string", "required": true},
                    {"name": "room", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "required": true, "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Exports disabled or unknown building"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
