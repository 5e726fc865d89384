// Package docs holds the swagger document for the feasibility API
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "paths": {
        "/query-handler/result/{queryId}": {
            "get": {
                "tags": ["Results"],
                "summary": "Collected results of a query",
                "operationId": "queryResult",
                "parameters": [
                    {"name": "queryId", "in": "path", "required": true, "description": "Query id", "schema": {"type": "string", "maxLength": 128}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/QueryResult"}}}}
                }
            }
        },
        "/query-handler/result/{queryId}/site/{siteId}": {
            "get": {
                "tags": ["Results"],
                "summary": "Result of one site for a query",
                "operationId": "siteResult",
                "parameters": [
                    {"name": "queryId", "in": "path", "required": true, "description": "Query id", "schema": {"type": "string", "maxLength": 128}},
                    {"name": "siteId", "in": "path", "required": true, "description": "Site id", "schema": {"type": "string", "maxLength": 128}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/SiteResult"}}}},
                    "404": {"description": "no result yet", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Health check", "operationId": "metaHealth", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "operationId": "metaReady", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build and version info", "operationId": "metaVersion", "responses": {"200": {"description": "ok"}}}
        },
        "/meta/service": {
            "get": {"tags": ["Meta"], "summary": "Service info and uptime", "operationId": "metaService", "responses": {"200": {"description": "ok"}}}
        }
    },
    "components": {
        "schemas": {
            "ResultLine": {
                "type": "object",
                "properties": {
                    "siteName": {"type": "string", "example": "DIC-7"},
                    "numberOfPatients": {"type": "integer", "example": 5}
                }
            },
            "QueryResult": {
                "type": "object",
                "properties": {
                    "queryId": {"type": "string", "example": "q-42"},
                    "totalNumberOfPatients": {"type": "integer", "example": 5},
                    "resultLines": {"type": "array", "items": {"$ref": "#/components/schemas/ResultLine"}}
                }
            },
            "SiteResult": {
                "type": "object",
                "properties": {
                    "queryId": {"type": "string", "example": "q-42"},
                    "siteId": {"type": "string", "example": "DIC-7"},
                    "numberOfPatients": {"type": "integer", "example": 5}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Feasibility API",
	Description:      "Read side of collected feasibility query results.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
