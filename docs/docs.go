// Package docs 由 swag 生成的 OpenAPI 文档
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
        "/api/clients": {
            "get": {
                "tags": [
                    "客户"
                ],
                "summary": "列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "页码",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "每页数量",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    }
                ]
            },
            "post": {
                "tags": [
                    "客户"
                ],
                "summary": "创建",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ContactRequest"
                        }
                    }
                ]
            }
        },
        "/api/clients/{id}": {
            "put": {
                "tags": [
                    "客户"
                ],
                "summary": "更新",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ContactRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "客户"
                ],
                "summary": "删除",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "仍被引用",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/clients/check": {
            "get": {
                "tags": [
                    "客户"
                ],
                "summary": "检查是否存在",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "缺少参数",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "名称（别名 name）",
                        "name": "nombre",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "邮箱",
                        "name": "email",
                        "in": "query"
                    }
                ]
            }
        },
        "/api/providers": {
            "get": {
                "tags": [
                    "供应商"
                ],
                "summary": "列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "页码",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "每页数量",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    }
                ]
            },
            "post": {
                "tags": [
                    "供应商"
                ],
                "summary": "创建",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ContactRequest"
                        }
                    }
                ]
            }
        },
        "/api/providers/{id}": {
            "put": {
                "tags": [
                    "供应商"
                ],
                "summary": "更新",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ContactRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "供应商"
                ],
                "summary": "删除",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "仍被引用",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/providers/check": {
            "get": {
                "tags": [
                    "供应商"
                ],
                "summary": "检查是否存在",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "缺少参数",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "名称（别名 name）",
                        "name": "nombre",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "邮箱",
                        "name": "email",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "电话（别名 phone）",
                        "name": "telefono",
                        "in": "query"
                    }
                ]
            }
        },
        "/api/services-products": {
            "get": {
                "tags": [
                    "服务产品"
                ],
                "summary": "列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "页码",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "每页数量",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    },
                    {
                        "type": "string",
                        "description": "servicio / producto",
                        "name": "tipo",
                        "in": "query"
                    }
                ]
            },
            "post": {
                "tags": [
                    "服务产品"
                ],
                "summary": "创建",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ServiceProductRequest"
                        }
                    }
                ]
            }
        },
        "/api/services-products/{id}": {
            "put": {
                "tags": [
                    "服务产品"
                ],
                "summary": "更新",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "已存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "422": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "请求体",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ServiceProductRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "服务产品"
                ],
                "summary": "删除",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "409": {
                        "description": "仍被引用",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/services-products/check": {
            "get": {
                "tags": [
                    "服务产品"
                ],
                "summary": "检查是否存在",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "缺少参数",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "名称（别名 name）",
                        "name": "nombre",
                        "in": "query"
                    }
                ]
            }
        },
        "/api/expenses": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "按类别分组的支出",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "筛选参数无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "页码",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "每页数量",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    },
                    {
                        "type": "string",
                        "description": "pendiente / aprobado / pagado / rechazado",
                        "name": "estado",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "起始日期 YYYY-MM-DD",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "结束日期 YYYY-MM-DD",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "类别ID",
                        "name": "categoria_id",
                        "in": "query"
                    }
                ]
            },
            "post": {
                "tags": [
                    "支出"
                ],
                "summary": "创建支出",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "支出信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ExpenseRequest"
                        }
                    }
                ]
            }
        },
        "/api/expenses/{id}": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "获取单条支出",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "put": {
                "tags": [
                    "支出"
                ],
                "summary": "更新支出",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "支出信息",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.ExpenseRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "支出"
                ],
                "summary": "删除支出",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/expenses/paginated": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "支出分页列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "页码",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "description": "每页数量",
                        "name": "limit",
                        "in": "query",
                        "default": 10
                    }
                ]
            }
        },
        "/api/expenses/categories": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "支出类别列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                }
            }
        },
        "/api/expenses/concepts/{categoryId}": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "付款科目列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "类别ID",
                        "name": "categoryId",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/expenses/providers": {
            "get": {
                "tags": [
                    "支出"
                ],
                "summary": "供应商选项",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                }
            }
        },
        "/api/expenses/export/excel": {
            "get": {
                "tags": [
                    "导出"
                ],
                "summary": "导出支出 Excel",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "responses": {
                    "200": {
                        "description": "Excel 文件",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "筛选参数无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "pendiente / aprobado / pagado / rechazado",
                        "name": "estado",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "起始日期 YYYY-MM-DD",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "结束日期 YYYY-MM-DD",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "类别ID",
                        "name": "categoria_id",
                        "in": "query"
                    }
                ]
            }
        },
        "/api/expenses/export/csv": {
            "get": {
                "tags": [
                    "导出"
                ],
                "summary": "导出支出 CSV",
                "produces": [
                    "text/csv"
                ],
                "responses": {
                    "200": {
                        "description": "CSV 文件",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "筛选参数无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "pendiente / aprobado / pagado / rechazado",
                        "name": "estado",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "起始日期 YYYY-MM-DD",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "结束日期 YYYY-MM-DD",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "类别ID",
                        "name": "categoria_id",
                        "in": "query"
                    }
                ]
            }
        },
        "/api/quotations": {
            "get": {
                "tags": [
                    "报价单"
                ],
                "summary": "报价单列表",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "状态无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "pendiente / aprobada / rechazada",
                        "name": "estado",
                        "in": "query"
                    }
                ]
            },
            "post": {
                "tags": [
                    "报价单"
                ],
                "summary": "创建报价单",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "参数校验失败",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "报价单",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/service.QuotationInput"
                        }
                    }
                ]
            }
        },
        "/api/quotations/{id}": {
            "get": {
                "tags": [
                    "报价单"
                ],
                "summary": "报价单详情",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/quotations/{id}/estado": {
            "put": {
                "tags": [
                    "报价单"
                ],
                "summary": "更新报价单状态",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "状态无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "新状态",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.QuotationStatusRequest"
                        }
                    }
                ]
            }
        },
        "/api/quotations/{id}/pdf": {
            "get": {
                "tags": [
                    "报价单"
                ],
                "summary": "下载报价单 PDF",
                "produces": [
                    "application/pdf"
                ],
                "responses": {
                    "200": {
                        "description": "PDF 文件",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/quotations/{id}/send": {
            "post": {
                "tags": [
                    "报价单"
                ],
                "summary": "邮件发送报价单",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "404": {
                        "description": "不存在",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "429": {
                        "description": "请求过于频繁",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "503": {
                        "description": "邮件服务未启用",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/api/registros": {
            "get": {
                "tags": [
                    "记录"
                ],
                "summary": "新建记录表单数据",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "记录"
                ],
                "summary": "新建记录",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "创建成功",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    },
                    "400": {
                        "description": "类型或数据无效",
                        "schema": {
                            "$ref": "#/definitions/api.Response"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "tipo: cotizacion / gasto",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/api.RegistroRequest"
                        }
                    }
                ]
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "duplicateFields": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "boolean"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/api.Pagination"
                }
            }
        },
        "api.Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "totalItems": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
            }
        },
        "api.ContactRequest": {
            "type": "object",
            "properties": {
                "nombre": {
                    "type": "string",
                    "example": "Acme S.A."
                },
                "email": {
                    "type": "string",
                    "example": "contacto@acme.com"
                },
                "telefono": {
                    "type": "string",
                    "example": "5512345678"
                },
                "direccion": {
                    "type": "string",
                    "example": "Av. Reforma 100"
                }
            },
            "required": [
                "nombre",
                "email",
                "telefono",
                "direccion"
            ]
        },
        "api.ServiceProductRequest": {
            "type": "object",
            "properties": {
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "precio": {
                    "type": "string",
                    "example": "1500.00"
                },
                "tipo": {
                    "type": "string",
                    "enum": [
                        "servicio",
                        "producto"
                    ]
                }
            },
            "required": [
                "nombre",
                "descripcion",
                "precio",
                "tipo"
            ]
        },
        "api.ExpenseRequest": {
            "type": "object",
            "properties": {
                "proveedor_id": {
                    "type": "integer"
                },
                "concepto_pago_id": {
                    "type": "integer"
                },
                "monto": {
                    "type": "string",
                    "example": "150.50"
                },
                "descripcion": {
                    "type": "string"
                },
                "fecha": {
                    "type": "string",
                    "example": "2024-03-09"
                },
                "estado": {
                    "type": "string",
                    "enum": [
                        "pendiente",
                        "aprobado",
                        "pagado",
                        "rechazado"
                    ]
                },
                "solicitante_id": {
                    "type": "integer"
                },
                "aprobador_id": {
                    "type": "integer"
                },
                "fecha_aprobacion": {
                    "type": "string"
                },
                "fecha_pago": {
                    "type": "string"
                }
            },
            "required": [
                "proveedor_id",
                "concepto_pago_id",
                "monto",
                "fecha"
            ]
        },
        "api.QuotationStatusRequest": {
            "type": "object",
            "properties": {
                "estado": {
                    "type": "string",
                    "enum": [
                        "pendiente",
                        "aprobada",
                        "rechazada"
                    ]
                }
            }
        },
        "api.RegistroRequest": {
            "type": "object",
            "properties": {
                "tipo": {
                    "type": "string",
                    "enum": [
                        "cotizacion",
                        "gasto"
                    ]
                },
                "datos": {
                    "type": "object"
                }
            }
        },
        "service.QuotationItemInput": {
            "type": "object",
            "properties": {
                "servicio_productos_id": {
                    "type": "integer"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "100.00"
                }
            }
        },
        "service.QuotationInput": {
            "type": "object",
            "properties": {
                "cliente_id": {
                    "type": "integer"
                },
                "estado": {
                    "type": "string",
                    "enum": [
                        "pendiente",
                        "aprobada",
                        "rechazada"
                    ]
                },
                "detalle": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/service.QuotationItemInput"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sistema de Cotizaciones y Gastos API",
	Description:      "Clientes, proveedores, servicios, cotizaciones y gastos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
