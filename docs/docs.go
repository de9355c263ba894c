// Package docs holds the OpenAPI description served under /swagger/.
// The template is maintained by hand and covers the routes in router.go;
// edit it alongside the handler annotations.
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
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "data.status is ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}}}
        },
        "/events": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create a new event",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "event", "required": true, "schema": {"$ref": "#/definitions/controllers.NewEventRequest"}}],
                "responses": {
                    "201": {"description": "data contains the created event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (date too soon)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        },
        "/events/{eventID}": {
            "get": {"tags": ["events"], "summary": "Get a published event", "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "eventID", "required": true}],
                "responses": {
                    "200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        },
        "/users/me/events/{eventID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get one of my events", "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "eventID", "required": true}],
                "responses": {
                    "200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "409": {"description": "error.code: conflict (not the initiator)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Edit one of my events",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "eventID", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "data contains the updated event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "409": {"description": "error.code: conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        },
        "/users/me/events/{eventID}/requests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "List requests for one of my events", "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "eventID", "required": true}],
                "responses": {"200": {"description": "oldest first", "schema": {"$ref": "#/definitions/controllers.RequestListSuccessResponse"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Confirm or reject requests for one of my events", "description": "Resolves the listed PENDING requests in list order. Only listed requests change status. When confirming, earlier entries take the remaining slots and any listed request that finds no slot is rejected.",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "eventID", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ResolveRequestsRequest"}}
                ],
                "responses": {
                    "200": {"description": "data contains confirmed and rejected requests", "schema": {"$ref": "#/definitions/controllers.ResolutionSuccessResponse"}},
                    "409": {"description": "error.code: conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        },
        "/users/me/requests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "List my participation requests", "produces": ["application/json"],
                "responses": {"200": {"description": "newest first", "schema": {"$ref": "#/definitions/controllers.RequestListSuccessResponse"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Request participation in an event",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.NewRequestRequest"}}],
                "responses": {
                    "201": {"description": "data contains the new request", "schema": {"$ref": "#/definitions/controllers.RequestSuccessResponse"}},
                    "409": {"description": "error.code: conflict", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        },
        "/users/me/requests/{requestID}/cancel": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["requests"], "summary": "Cancel my participation request", "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "requestID", "required": true}],
                "responses": {"200": {"description": "data contains the canceled request", "schema": {"$ref": "#/definitions/controllers.RequestSuccessResponse"}}}}
        },
        "/admin/events/{eventID}": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Moderate an event",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "in": "path", "name": "eventID", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "data contains the updated event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }}
        }
    },
    "definitions": {
        "helpers.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "helpers.APIResponse": {"type": "object", "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.LocationDTO": {"type": "object", "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}}},
        "controllers.NewEventRequest": {"type": "object", "properties": {
            "title": {"type": "string"}, "annotation": {"type": "string"}, "description": {"type": "string"},
            "category": {"type": "string"}, "eventDate": {"type": "string", "example": "2026-05-12 18:00:00"},
            "location": {"$ref": "#/definitions/controllers.LocationDTO"}, "paid": {"type": "boolean"},
            "participantLimit": {"type": "integer"}, "requestModeration": {"type": "boolean"}}},
        "controllers.UpdateEventRequest": {"type": "object", "properties": {
            "title": {"type": "string"}, "annotation": {"type": "string"}, "description": {"type": "string"},
            "category": {"type": "string"}, "eventDate": {"type": "string", "example": "2026-05-12 18:00:00"},
            "location": {"$ref": "#/definitions/controllers.LocationDTO"}, "paid": {"type": "boolean"},
            "participantLimit": {"type": "integer"}, "requestModeration": {"type": "boolean"},
            "stateAction": {"type": "string", "enum": ["SEND_TO_REVIEW", "CANCEL_REVIEW", "PUBLISH_EVENT", "REJECT_EVENT"]}}},
        "controllers.NewRequestRequest": {"type": "object", "properties": {"eventId": {"type": "string"}}},
        "controllers.ResolveRequestsRequest": {"type": "object", "properties": {
            "requestIds": {"type": "array", "items": {"type": "string"}},
            "status": {"type": "string", "enum": ["CONFIRMED", "REJECTED"]}}},
        "domain.Location": {"type": "object", "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}}},
        "domain.Event": {"type": "object", "properties": {
            "id": {"type": "string"}, "initiator": {"type": "string"}, "title": {"type": "string"},
            "annotation": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"},
            "eventDate": {"type": "string"}, "location": {"$ref": "#/definitions/domain.Location"},
            "paid": {"type": "boolean"}, "participantLimit": {"type": "integer"}, "confirmedRequests": {"type": "integer"},
            "requestModeration": {"type": "boolean"}, "state": {"type": "string", "enum": ["PENDING", "PUBLISHED", "CANCELED"]},
            "reviewRequested": {"type": "boolean"}, "createdOn": {"type": "string"}, "publishedOn": {"type": "string"},
            "views": {"type": "integer"}}},
        "domain.ParticipationRequest": {"type": "object", "properties": {
            "id": {"type": "string"}, "requester": {"type": "string"}, "event": {"type": "string"},
            "status": {"type": "string", "enum": ["PENDING", "CONFIRMED", "REJECTED", "CANCELED"]}, "created": {"type": "string"}}},
        "domain.RequestResolution": {"type": "object", "properties": {
            "confirmedRequests": {"type": "array", "items": {"$ref": "#/definitions/domain.ParticipationRequest"}},
            "rejectedRequests": {"type": "array", "items": {"$ref": "#/definitions/domain.ParticipationRequest"}}}},
        "controllers.EventSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.Event"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.RequestSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.ParticipationRequest"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.RequestListSuccessResponse": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/domain.ParticipationRequest"}}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.ResolutionSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.RequestResolution"}, "error": {"$ref": "#/definitions/helpers.APIError"}}}
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
	Title:            "Event Admission API",
	Description:      "Event lifecycle and participation request admission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
