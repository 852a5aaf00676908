package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Carebook Booking API",
        "description": "Patient appointment booking and availability service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Working-hour windows per day and week"},
        {"name": "Calendar", "description": "Materialized weekly slot grid and navigation"},
        {"name": "Bookings", "description": "Patient appointment management"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get availability for a day or week",
                "parameters": [
                    {"name": "practitionerId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "range", "in": "query", "type": "string", "enum": ["day", "week"]}
                ],
                "responses": {
                    "200": {"description": "Availability records and weekly editing shape"}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace the staged week's availability",
                "responses": {
                    "200": {"description": "Saved"},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/calendar": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Current visible week with slot grid",
                "responses": {
                    "200": {"description": "Week view"}
                }
            }
        },
        "/calendar/next": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Shift the calendar one week forward",
                "responses": {
                    "200": {"description": "Week view"}
                }
            }
        },
        "/calendar/previous": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Shift the calendar one week back",
                "responses": {
                    "200": {"description": "Week view"}
                }
            }
        },
        "/calendar/range": {
            "put": {
                "tags": ["Calendar"],
                "summary": "Jump to an explicit date range",
                "responses": {
                    "200": {"description": "Week view"}
                }
            }
        },
        "/calendar/export": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Export the current week as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List bookings for a day or week",
                "responses": {
                    "200": {"description": "Bookings"}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Create a booking",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot unavailable or conflict"}
                }
            }
        },
        "/bookings/{id}": {
            "put": {
                "tags": ["Bookings"],
                "summary": "Update a booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated"}
                }
            },
            "delete": {
                "tags": ["Bookings"],
                "summary": "Cancel a booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"}
                }
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
