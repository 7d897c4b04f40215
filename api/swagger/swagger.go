package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Dashboard API",
        "description": "Course status and pricing decisions for the learner dashboard",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Evaluated course statuses and pricing"},
        {"name": "Coupons", "description": "Learner coupon management"}
    ],
    "paths": {
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Learner dashboard with evaluated course statuses",
                "parameters": [
                    {"name": "expanded", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Learner not enrolled in a program"}
                }
            }
        },
        "/dashboard/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Export the learner dashboard as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "400": {"description": "Unsupported format"},
                    "403": {"description": "Exports disabled"}
                }
            }
        },
        "/courses/{courseId}/price": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Pricing breakdown for a single course",
                "parameters": [
                    {"name": "courseId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/coupons": {
            "get": {
                "tags": ["Coupons"],
                "summary": "List coupons attached to the learner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/coupons/attach": {
            "post": {
                "tags": ["Coupons"],
                "summary": "Attach a coupon by code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttachCouponRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown or invalid coupon code"},
                    "409": {"description": "Coupon already attached"},
                    "412": {"description": "Coupon limit reached"}
                }
            }
        }
    },
    "definitions": {
        "AttachCouponRequest": {
            "type": "object",
            "required": ["couponCode"],
            "properties": {
                "couponCode": {"type": "string"}
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
