// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/token": {
            "post": {
                "description": "Exchanges the operator credentials from configuration for a bearer token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue access token",
                "parameters": [{"description": "Operator credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Get appliance state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplianceState"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/power": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Power on or off",
                "parameters": [{"description": "Power payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.powerRequest"}}],
                "responses": {
                    "200": {"description": "status, state", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/temperature/up": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Raise temperature by one step",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/temperature/down": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Lower temperature by one step",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/temperature": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Setting the current temperature is accepted and sends nothing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Set temperature",
                "parameters": [{"description": "Temperature payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.temperatureRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/mode": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Set mode",
                "parameters": [{"description": "Mode payload (auto, warm, dry, cool, fan)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.modeRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ac/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Moves mode, temperature and power in one transmission. Omitted fields are kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ac"],
                "summary": "Apply desired status",
                "parameters": [{"description": "Desired status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StatusRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ir/captures": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ir"],
                "summary": "List captured sequences",
                "responses": {"200": {"description": "count, captures", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ir"],
                "summary": "Clear capture history",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/v1/ir/captures/latest": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ir"],
                "summary": "Latest captured sequence",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CaptureView"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/ir/send": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Frames are hex strings encoded as AEHA; pulses are microseconds starting and ending with a mark.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ir"],
                "summary": "Send IR frames or raw pulses",
                "parameters": [{"description": "Frames or pulses", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SendRequest"}}],
                "responses": {
                    "200": {"description": "status, pulses", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range", "name": "to", "in": "query"},
                    {"enum": ["POWER_ON", "POWER_OFF", "TEMPERATURE", "MODE", "STATUS", "SEND", "ERROR"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Keep only the most recent N events", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.powerRequest": {
            "type": "object",
            "required": ["on"],
            "properties": {"on": {"type": "boolean"}}
        },
        "handlers.temperatureRequest": {
            "type": "object",
            "required": ["temperature"],
            "properties": {"temperature": {"type": "integer"}}
        },
        "handlers.modeRequest": {
            "type": "object",
            "required": ["mode"],
            "properties": {"mode": {"type": "string"}}
        },
        "handlers.StatusRequest": {
            "type": "object",
            "properties": {
                "mode": {"type": "string", "example": "cool"},
                "powered": {"type": "boolean", "example": true},
                "temperature": {"type": "integer", "example": 24}
            }
        },
        "handlers.SendRequest": {
            "type": "object",
            "properties": {
                "frames": {"type": "array", "items": {"type": "string"}, "example": ["40 00 14 80 43"]},
                "pulses": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "models.ApplianceState": {
            "type": "object",
            "properties": {
                "max_temperature": {"type": "integer"},
                "min_temperature": {"type": "integer"},
                "mode": {"type": "string"},
                "powered": {"type": "boolean"},
                "temperature": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "models.CaptureView": {
            "type": "object",
            "properties": {
                "decode_error": {"type": "string"},
                "frames": {"type": "array", "items": {"type": "string"}},
                "index": {"type": "integer", "description": "position in the capture history; absent for live captures"},
                "pulses": {"type": "array", "items": {"type": "integer"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "IR air-conditioner remote",
	Description:      "Drives a Sanyo air conditioner over infrared and exposes received IR captures.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
