package swagger

import "github.com/swaggo/swag"

// Probes and /metrics are served outside basePath and are not listed.
const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Academia API", "description": "Enrollment, payments and attendance for an academic institution", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Authentication", "description": "Login and credentials"},
        {"name": "Catalog", "description": "Cycles, courses and packages"},
        {"name": "Offerings", "description": "Course and package offerings"},
        {"name": "Schedules", "description": "Weekly class slots"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Teachers", "description": "Teacher registry"},
        {"name": "Users", "description": "Staff accounts"},
        {"name": "Enrollments", "description": "Enrollment engine"},
        {"name": "Payments", "description": "Payment plans and vouchers"},
        {"name": "Attendance", "description": "Attendance and absence alerts"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by DNI",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "dni and password"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "403": {"description": "Inactive account", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current principal",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/cycles": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List cycles",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create cycle",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/cycles/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get cycle",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update cycle",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Fields to change"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete cycle",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create course",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Fields to change"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/packages": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List packages",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create package",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/packages/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Update package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Fields to change"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/course-offerings": {
            "get": {
                "tags": ["Offerings"],
                "summary": "List course offerings",
                "parameters": [{"name": "cycle_id", "in": "query", "type": "string", "description": "Filter by cycle"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Offerings"],
                "summary": "Create course offering",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/course-offerings/{id}": {
            "get": {
                "tags": ["Offerings"],
                "summary": "Get course offering",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Offerings"],
                "summary": "Update course offering",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Fields to change"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Offerings"],
                "summary": "Delete course offering",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/package-offerings": {
            "get": {
                "tags": ["Offerings"],
                "summary": "List package offerings",
                "parameters": [{"name": "cycle_id", "in": "query", "type": "string", "description": "Filter by cycle"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Offerings"],
                "summary": "Create package offering",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/package-offerings/{id}": {
            "get": {
                "tags": ["Offerings"],
                "summary": "Get package offering",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Offerings"],
                "summary": "Delete package offering",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Still referenced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/course-offerings/{id}/calendar.ics": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Offering timetable as iCalendar",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "produces": ["text/calendar"]
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "parameters": [
                    {"name": "course_offering_id", "in": "query", "type": "string"},
                    {"name": "package_offering_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Schedules"],
                "summary": "Update schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/schedules/{id}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance of a schedule on a date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD, defaults to today"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/register": {
            "post": {
                "tags": ["Students"],
                "summary": "Register a student account",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {
                        "description": "DNI already registered",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}/attendance": {
            "get": {
                "tags": ["Students"],
                "summary": "Attendance history of a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [{"name": "search", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher with login",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/teachers/me/students": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Students of the authenticated teacher",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "patch": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/teachers/{id}/reset-password": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Reset teacher password",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/teachers/{id}/students": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Students taught by a teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List staff accounts",
                "parameters": [{"name": "role", "in": "query", "type": "string", "description": "ADMIN or TEACHER"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create admin account",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get staff account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/users/{id}/active": {
            "patch": {
                "tags": ["Users"],
                "summary": "Activate or deactivate an account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "active flag"
                    }
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student (single item or batch)",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "{type,id} or {student_id,items}"
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Duplicate enrollment or invalid payload",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Offering not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                },
                "security": [{"BearerAuth": []}]
            },
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "cycle_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/export": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Export enrollments",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv, pdf or xlsx"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "cycle_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}],
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ]
            }
        },
        "/enrollments/offering/{kind}/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Enrollments of an offering",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string", "description": "course or package"},
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {"name": "status", "in": "query", "type": "string", "description": "Defaults to accepted"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"204": {"description": "No Content"}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}/status": {
            "patch": {
                "tags": ["Enrollments"],
                "summary": "Change enrollment status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "status"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Payment incomplete",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}/payment-plan": {
            "get": {
                "tags": ["Payments"],
                "summary": "Payment plan of an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/installments/pending": {
            "get": {
                "tags": ["Payments"],
                "summary": "Installments awaiting review",
                "parameters": [],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/installments/{id}/voucher": {
            "post": {
                "tags": ["Payments"],
                "summary": "Upload a payment voucher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {
                        "description": "Voucher too large",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "412": {
                        "description": "Installment already paid",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                },
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"]
            }
        },
        "/installments/{id}/voucher-link": {
            "get": {
                "tags": ["Payments"],
                "summary": "Signed download link for a voucher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/installments/{id}/approve": {
            "post": {
                "tags": ["Payments"],
                "summary": "Approve an installment voucher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/installments/{id}/reject": {
            "post": {
                "tags": ["Payments"],
                "summary": "Reject an installment voucher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}},
                "security": [{"BearerAuth": []}]
            }
        },
        "/installments/{id}/receipt": {
            "get": {
                "tags": ["Payments"],
                "summary": "PDF receipt of a paid installment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Identifier"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {
                        "description": "Installment not paid",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                },
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"]
            }
        },
        "/vouchers/download": {
            "get": {
                "tags": ["Payments"],
                "summary": "Download a voucher with a signed token",
                "parameters": [{"name": "token", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {
                        "description": "Invalid or expired link",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"},
                        "description": "Payload"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {
                        "description": "Schedule not assigned",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                },
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "definitions": {
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
