package repo

import (
	"Arquivista/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var sqlitePragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)"}

// Dialect определяет тип хранилища по строке подключения:
// postgres:// и postgresql:// дают сетевой Postgres, всё остальное считается файлом SQLite.
func Dialect(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func dialector(dsn string) gorm.Dialector {
	if Dialect(dsn) == DialectPostgres {
		return postgres.Open(dsn)
	}
	// драйвер modernc (pure Go) регистрируется под именем "sqlite"
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: sqliteDSN(dsn)}
}

// sqliteDSN добавляет к строке подключения busy_timeout и WAL,
// если они не заданы явно.
func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	for _, pragma := range sqlitePragmas {
		name := pragma[:strings.IndexByte(pragma, '(')]
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + pragma
	}
	return dsn
}

// InitDB открывает БД и применяет миграции моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", Dialect(dsn), err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if Dialect(dsn) == DialectSQLite {
		// SQLite допускает одного писателя: запросы встают в очередь пула,
		// а не падают с SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы users, sessions, archives.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.Archive{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
