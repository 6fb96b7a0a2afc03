package main

import (
	"flag"
	"log"
	"log/slog"
	"strings"

	"cotizaciones/config"
	"cotizaciones/database"
	"cotizaciones/logger"
	"cotizaciones/router"
)

// @title Sistema de Cotizaciones y Gastos API
// @version 1.0
// @description Clientes, proveedores, servicios, cotizaciones y gastos.
// @host localhost:3000
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "ruta del archivo de configuración externo (opcional)")
	flag.StringVar(&configFile, "c", "", "ruta del archivo de configuración (abreviado)")
	flag.StringVar(&port, "port", "", "puerto de escucha, p. ej. 3000 o :3000")
	flag.StringVar(&port, "p", "", "puerto de escucha (abreviado)")
	flag.BoolVar(&showVersion, "version", false, "mostrar la versión")
	flag.BoolVar(&showVersion, "v", false, "mostrar la versión (abreviado)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("cotizaciones v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("error al cargar la configuración: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("puerto indicado por línea de comandos: %s", port)
	}

	logger.Init(cfg.Log)
	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		slog.Error("error al inicializar la base de datos", "error", err)
		log.Fatal(err)
	}

	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  Sistema de cotizaciones y gastos iniciado")
	log.Printf("==========================================")
	log.Printf("  Administración: http://localhost%s/", cfg.Server.Port)
	log.Printf("  Swagger:        http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:            http://localhost%s/api/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("error al iniciar el servidor: %v", err)
	}
}
