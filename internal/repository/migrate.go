package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/maynagashev/vacationkeeper/internal/repository/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate применяет встроенные миграции схемы.
func Migrate(db *sqlx.DB, log *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(log.Named("goose")))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("ошибка выбора диалекта миграций: %w", err)
	}

	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return fmt.Errorf("ошибка получения версии схемы: %w", err)
	}
	log.Info("Миграции применены", zap.Int64("version", version))
	return nil
}
