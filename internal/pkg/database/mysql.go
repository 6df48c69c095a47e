// internal/pkg/database/mysql.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"zirako/internal/pkg/bootstrap"
)

const mysqlDuplicateEntry = 1062

// Open 建立 GORM 连接池
func Open(cfg bootstrap.MySQLConfig) (*gorm.DB, error) {
	dsn := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DBName:               cfg.Database,
		ParseTime:            true,
		Loc:                  time.UTC,
		AllowNativePasswords: true,
		Params:               map[string]string{"charset": "utf8mb4"},
	}

	db, err := gorm.Open(gormmysql.Open(dsn.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: false,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open mysql")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)

	zlog.Info().Str("addr", dsn.Addr).Str("db", cfg.Database).Msg("✅ Connected to MySQL")
	return db, nil
}

// IsDuplicateKey 判断是否违反唯一约束
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

type txKey struct{}

// TxManager 把 GORM 事务放入 context，仓储通过 Conn 取用，
// 使多个仓储调用落在同一个事务内。
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx 在事务中执行 fn；ctx 中已有事务时直接复用。
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn 返回 ctx 中的事务，没有事务时返回带 ctx 的连接池句柄。
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
