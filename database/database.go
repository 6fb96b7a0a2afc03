package database

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cotizaciones/config"
	"cotizaciones/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN 根据配置构建 MySQL 连接字符串
// clientFoundRows 使 UPDATE 返回匹配行数而非实际变更行数
func DSN(cfg config.DatabaseConfig) string {
	dc := mysqldriver.NewConfig()
	dc.User = cfg.Username
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = cfg.Host + ":" + cfg.Port
	dc.DBName = cfg.DBName
	dc.ParseTime = true
	dc.Loc = time.Local
	dc.ClientFoundRows = true
	if cfg.Charset != "" {
		dc.Params = map[string]string{"charset": cfg.Charset}
	}
	return dc.FormatDSN()
}

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(DSN(cfg.Database)), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("conectar a la base de datos: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if cfg.Database.AutoMigrate {
		if err := Migrate(DB); err != nil {
			return fmt.Errorf("migrar esquema: %w", err)
		}
	}
	if cfg.Database.Seed {
		if err := SeedExpenseCategories(DB); err != nil {
			return fmt.Errorf("inicializar categorías: %w", err)
		}
	}

	slog.Info("base de datos inicializada", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	return nil
}

// Migrate 自动迁移所有表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.Provider{},
		&models.ServiceProduct{},
		&models.ExpenseCategory{},
		&models.PaymentConcept{},
		&models.Expense{},
		&models.Quotation{},
		&models.QuotationDetail{},
	)
}

// SeedExpenseCategories 初始化默认支出类别及付款科目（仅当表为空时）
func SeedExpenseCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExpenseCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := models.DefaultExpenseCategories()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			cat := models.ExpenseCategory{Nombre: name}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			concepts := make([]models.PaymentConcept, 0, len(defaults[name]))
			for _, desc := range defaults[name] {
				concepts = append(concepts, models.PaymentConcept{Descripcion: desc, CategoriaID: cat.ID})
			}
			if err := tx.Create(&concepts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
