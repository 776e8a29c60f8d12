package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Spool Tracker API",
        "description": "Filament spool inventory with RFID scale integration",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scan", "description": "Weight scale and RFID reader endpoint"},
        {"name": "Spools", "description": "Spool inventory"},
        {"name": "Reference", "description": "Manufacturers and spool types"},
        {"name": "Audit", "description": "Mutation history"},
        {"name": "Observability", "description": "Health and metrics"}
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
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Process counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/weight": {
            "get": {
                "tags": ["Scan"],
                "summary": "Report a scale reading for an RFID tag",
                "parameters": [
                    {"name": "uid", "in": "query", "type": "string", "required": true},
                    {"name": "weight", "in": "query", "type": "number", "required": true},
                    {"name": "X-Device-Key", "in": "header", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Resolved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Device key rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Update failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools": {
            "get": {
                "tags": ["Spools"],
                "summary": "List spools",
                "parameters": [
                    {"name": "material", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["CLOSED", "OPENED", "EMPTY"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Spools"],
                "summary": "Register spool",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SpoolRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Tag or code already assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools/export": {
            "get": {
                "tags": ["Spools"],
                "summary": "Export inventory",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools/by-code/{code}": {
            "get": {
                "tags": ["Spools"],
                "summary": "Find spool by QR code",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "format": "uuid", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools/by-rfid/{tag}": {
            "get": {
                "tags": ["Spools"],
                "summary": "Find spool by RFID tag",
                "parameters": [
                    {"name": "tag", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools/{id}": {
            "get": {
                "tags": ["Spools"],
                "summary": "Get spool",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Spools"],
                "summary": "Update spool",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SpoolRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Spools"],
                "summary": "Delete spool",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin role required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spools/{id}/usage": {
            "post": {
                "tags": ["Spools"],
                "summary": "Record filament usage",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UsageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/spool-types": {
            "get": {
                "tags": ["Reference"],
                "summary": "List spool types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/manufacturers": {
            "get": {
                "tags": ["Reference"],
                "summary": "List manufacturers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reference"],
                "summary": "Create manufacturer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateManufacturerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Name taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/audit-logs": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit entries",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "spool_id", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SpoolRequest": {
            "type": "object",
            "required": ["material", "name", "weight"],
            "properties": {
                "material": {"type": "string", "enum": ["PLA", "PETG", "ABS", "TPU", "Nylon", "PC", "Wood", "Metal", "Other"]},
                "manufacturer_id": {"type": "integer"},
                "spool_type": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "color_hex": {"type": "string"},
                "color_pantone": {"type": "string"},
                "diameter": {"type": "integer"},
                "weight": {"type": "number"},
                "remaining_weight": {"type": "number"},
                "status": {"type": "string", "enum": ["CLOSED", "OPENED", "EMPTY"]},
                "opened_at": {"type": "string", "format": "date-time"},
                "bought_at": {"type": "string", "format": "date-time"},
                "empty_at": {"type": "string", "format": "date-time"},
                "link": {"type": "string"},
                "code": {"type": "string", "format": "uuid"},
                "rfid1": {"type": "string"},
                "rfid2": {"type": "string"}
            }
        },
        "UsageRequest": {
            "type": "object",
            "properties": {
                "used_weight": {"type": "number"},
                "remaining_weight": {"type": "number"}
            }
        },
        "CreateManufacturerRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "link": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
