package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Membership Intake API",
        "description": "Multi-tenant membership application intake and triage",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Form", "description": "Public application form"},
        {"name": "Applications", "description": "Public submission endpoint"},
        {"name": "Admin", "description": "Staff triage and export"}
    ],
    "paths": {
        "/form": {
            "get": {
                "tags": ["Form"],
                "summary": "Public application form context",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No tenant for this host"}
                }
            }
        },
        "/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit a membership application",
                "consumes": ["multipart/form-data", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "full_name", "in": "formData", "type": "string", "required": true},
                    {"name": "birthdate", "in": "formData", "type": "string", "required": true},
                    {"name": "street", "in": "formData", "type": "string", "required": true},
                    {"name": "zip", "in": "formData", "type": "string", "required": true},
                    {"name": "city", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "phone", "in": "formData", "type": "string", "required": true},
                    {"name": "membership_type_code", "in": "formData", "type": "string", "required": true},
                    {"name": "style", "in": "formData", "type": "string"},
                    {"name": "entry_date", "in": "formData", "type": "string", "required": true},
                    {"name": "remarks", "in": "formData", "type": "string"},
                    {"name": "is_minor", "in": "formData", "type": "boolean"},
                    {"name": "guardian_name", "in": "formData", "type": "string"},
                    {"name": "guardian_relation", "in": "formData", "type": "string"},
                    {"name": "guardian_email", "in": "formData", "type": "string"},
                    {"name": "guardian_phone", "in": "formData", "type": "string"},
                    {"name": "sepa_account_holder", "in": "formData", "type": "string"},
                    {"name": "sepa_iban", "in": "formData", "type": "string"},
                    {"name": "sepa_bic", "in": "formData", "type": "string"},
                    {"name": "sepa_ok", "in": "formData", "type": "boolean"},
                    {"name": "privacy_ok", "in": "formData", "type": "boolean", "required": true},
                    {"name": "g-recaptcha-response", "in": "formData", "type": "string"},
                    {"name": "photo", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Captcha or anti-forgery rejection"},
                    "422": {"description": "Rule violations", "schema": {"$ref": "#/definitions/RejectedResponse"}}
                }
            }
        },
        "/admin/applications": {
            "get": {
                "tags": ["Admin"],
                "summary": "List membership applications",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/applications/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export applications as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "dateFrom", "in": "query", "type": "string"},
                    {"name": "dateTo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Document download"}
                }
            }
        },
        "/admin/applications/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Application detail with resolved warnings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown application"}
                }
            }
        },
        "/admin/applications/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Move an application to a new status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown status"},
                    "404": {"description": "Unknown application"}
                }
            }
        },
        "/admin/applications/{id}/events": {
            "get": {
                "tags": ["Admin"],
                "summary": "Application event history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "FieldError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "RejectedResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FieldError"}
                },
                "form": {"type": "object"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["new", "reviewed", "exported", "archived"]}
            },
            "required": ["status"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
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
